package availability_test

import (
	"context"
	"testing"
	"time"

	"podgoro/models"
	"podgoro/services/availability"
)

type fakeOccupancy struct {
	res []models.Reservation
}

func (f *fakeOccupancy) FindOverlapping(ctx context.Context, slot models.Slot) ([]models.Reservation, error) {
	return f.res, nil
}

// nextDate scans forward from tomorrow for a date with the given weekday
// outside the seasonal closures, so tests hold no matter when they run.
func nextDate(t *testing.T, wd time.Weekday) time.Time {
	t.Helper()
	d := time.Now().AddDate(0, 0, 1)
	for i := 0; i < 400; i++ {
		m := d.Month()
		closed := m == time.December || m == time.January || m == time.February
		if d.Weekday() == wd && !closed {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
		}
		d = d.AddDate(0, 0, 1)
	}
	t.Fatalf("no usable %s found", wd)
	return time.Time{}
}

func fmtDate(d time.Time) string {
	return d.Format(availability.DateLayout)
}

func TestCheckRoomClosedOnMonday(t *testing.T) {
	c := availability.NewChecker(&fakeOccupancy{})
	arrival := nextDate(t, time.Monday)

	res, err := c.Check(context.Background(), models.Slot{
		Type: models.ReservationRoom, Date: fmtDate(arrival), Nights: 3, People: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available {
		t.Fatalf("Monday arrival should not be available")
	}
	if res.Reason != models.ReasonOutsideHours {
		t.Errorf("expected reason %q, got %q", models.ReasonOutsideHours, res.Reason)
	}
	if len(res.Alternatives) == 0 {
		t.Errorf("expected alternative dates for a closed day")
	}
}

func TestCheckTableOnWeekdayRejected(t *testing.T) {
	c := availability.NewChecker(&fakeOccupancy{})
	arrival := nextDate(t, time.Wednesday)

	res, err := c.Check(context.Background(), models.Slot{
		Type: models.ReservationTable, Date: fmtDate(arrival), Time: "13:00", People: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available || res.Reason != models.ReasonOutsideHours {
		t.Fatalf("weekday lunch should be outside business hours, got %+v", res)
	}
}

func TestCheckTableLateArrivalRejected(t *testing.T) {
	c := availability.NewChecker(&fakeOccupancy{})
	arrival := nextDate(t, time.Saturday)

	res, err := c.Check(context.Background(), models.Slot{
		Type: models.ReservationTable, Date: fmtDate(arrival), Time: "16:30", People: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available || res.Reason != models.ReasonOutsideHours {
		t.Fatalf("arrival after last seating should be rejected, got %+v", res)
	}
}

func TestCheckRoomAvailableWhenEmpty(t *testing.T) {
	c := availability.NewChecker(&fakeOccupancy{})
	arrival := nextDate(t, time.Friday)

	res, err := c.Check(context.Background(), models.Slot{
		Type: models.ReservationRoom, Date: fmtDate(arrival), Nights: 3, People: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Available {
		t.Fatalf("empty house should be available, got %+v", res)
	}
}

func TestCheckRoomConflictWhenFull(t *testing.T) {
	arrival := nextDate(t, time.Friday)
	date := fmtDate(arrival)

	full := make([]models.Reservation, 0, 3)
	for i := 0; i < 3; i++ {
		full = append(full, models.Reservation{
			Type: models.ReservationRoom, Date: date, Nights: 3, People: 4,
			Status: models.ReservationPending,
		})
	}
	c := availability.NewChecker(&fakeOccupancy{res: full})

	res, err := c.Check(context.Background(), models.Slot{
		Type: models.ReservationRoom, Date: date, Nights: 3, People: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available || res.Reason != models.ReasonConflict {
		t.Fatalf("full house should conflict, got %+v", res)
	}
	if len(res.Conflicts) != len(full) {
		t.Errorf("verdict should carry the %d competing reservations, got %d", len(full), len(res.Conflicts))
	}
}

func TestCheckTableConflictWhenSeatsRunOut(t *testing.T) {
	arrival := nextDate(t, time.Sunday)
	date := fmtDate(arrival)

	c := availability.NewChecker(&fakeOccupancy{res: []models.Reservation{
		{Type: models.ReservationTable, Date: date, Time: "12:00", People: 30, Status: models.ReservationConfirmed},
		{Type: models.ReservationTable, Date: date, Time: "13:00", People: 15, Status: models.ReservationPending},
	}})

	res, err := c.Check(context.Background(), models.Slot{
		Type: models.ReservationTable, Date: date, Time: "13:00", People: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available || res.Reason != models.ReasonConflict {
		t.Fatalf("overbooked dining room should conflict, got %+v", res)
	}
	if len(res.Conflicts) != 2 {
		t.Errorf("verdict should list both competing parties, got %d", len(res.Conflicts))
	}
}

func TestExceedsCapacityCountsPerNight(t *testing.T) {
	arrival := nextDate(t, time.Friday)
	date := fmtDate(arrival)

	// Two rooms taken on the second night only.
	second := fmtDate(arrival.AddDate(0, 0, 1))
	overlapping := []models.Reservation{
		{Type: models.ReservationRoom, Date: second, Nights: 2, People: 8, Status: models.ReservationConfirmed},
	}

	// A two-room party starting a night earlier still fits night one but not
	// night two.
	slot := models.Slot{Type: models.ReservationRoom, Date: date, Nights: 3, People: 8}
	if !availability.ExceedsCapacity(slot, overlapping) {
		t.Fatalf("expected capacity overflow on the shared night")
	}

	small := models.Slot{Type: models.ReservationRoom, Date: date, Nights: 3, People: 2}
	if availability.ExceedsCapacity(small, overlapping) {
		t.Fatalf("one-room party should still fit alongside two booked rooms")
	}
}

func TestValidateRejectsImpossibleRequests(t *testing.T) {
	friday := fmtDate(nextDate(t, time.Friday))
	saturday := fmtDate(nextDate(t, time.Saturday))

	cases := []struct {
		name string
		slot models.Slot
	}{
		{"unknown type", models.Slot{Type: "cottage", Date: friday, People: 2}},
		{"bad date", models.Slot{Type: models.ReservationRoom, Date: "2026-05-05", Nights: 3, People: 2}},
		{"past date", models.Slot{Type: models.ReservationRoom, Date: "01.01.2001", Nights: 3, People: 2}},
		{"zero people", models.Slot{Type: models.ReservationRoom, Date: friday, Nights: 3, People: 0}},
		{"too many room guests", models.Slot{Type: models.ReservationRoom, Date: friday, Nights: 3, People: 13}},
		{"stay too short", models.Slot{Type: models.ReservationRoom, Date: friday, Nights: 1, People: 2}},
		{"party too large for a table", models.Slot{Type: models.ReservationTable, Date: saturday, Time: "12:30", People: 36}},
		{"bad arrival time", models.Slot{Type: models.ReservationTable, Date: saturday, Time: "kmalu", People: 4}},
	}
	for _, tc := range cases {
		if err := availability.Validate(tc.slot); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}

func TestRoomsNeeded(t *testing.T) {
	cases := []struct{ people, rooms int }{
		{1, 1}, {4, 1}, {5, 2}, {8, 2}, {9, 3}, {12, 3},
	}
	for _, tc := range cases {
		if got := availability.RoomsNeeded(tc.people); got != tc.rooms {
			t.Errorf("RoomsNeeded(%d) = %d, want %d", tc.people, got, tc.rooms)
		}
	}
}

func TestValidateOpenRejectsClosedSlots(t *testing.T) {
	monday := fmtDate(nextDate(t, time.Monday))
	wednesday := fmtDate(nextDate(t, time.Wednesday))
	saturday := fmtDate(nextDate(t, time.Saturday))

	cases := []struct {
		name string
		slot models.Slot
	}{
		{"room on a Monday", models.Slot{Type: models.ReservationRoom, Date: monday, Nights: 3, People: 2}},
		{"table on a weekday", models.Slot{Type: models.ReservationTable, Date: wednesday, Time: "13:00", People: 4}},
		{"lunch arrival after last seating", models.Slot{Type: models.ReservationTable, Date: saturday, Time: "16:30", People: 4}},
	}
	for _, tc := range cases {
		if err := availability.ValidateOpen(tc.slot); err == nil {
			t.Errorf("%s: expected a rule error, got nil", tc.name)
		}
	}

	open := models.Slot{Type: models.ReservationRoom, Date: fmtDate(nextDate(t, time.Friday)), Nights: 3, People: 2}
	if err := availability.ValidateOpen(open); err != nil {
		t.Errorf("Friday arrival should pass the opening rules, got %v", err)
	}
}
