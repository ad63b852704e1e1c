// Package availability applies the farm's business rules and current
// occupancy to a requested slot. Its verdict is advisory; the reservation
// store repeats the conflict check inside the write.
package availability

import (
	"fmt"
	"time"
)

// House capacity. Three guest rooms, each sleeping 2+2. The two dining rooms
// seat 15 and 35; a single party cannot exceed the larger room.
const (
	TotalRooms    = 3
	roomSleeps    = 4
	maxRoomGuests = 12
	DiningSeats   = 50
	maxTableParty = 35
)

// Room stays.
const (
	minNights       = 2
	minNightsSummer = 3
)

// Weekend lunch service window. Arrival accepted from noon until the last
// lunch seating.
const (
	lunchOpenHour    = 12
	lastLunchArrival = 15
	lunchCloseHour   = 20
)

// DateLayout is the guest-facing date format used across the service.
const DateLayout = "02.01.2006"

// TimeLayout is the guest-facing clock format.
const TimeLayout = "15:04"

// ParseDate parses a "DD.MM.YYYY" date in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected DD.MM.YYYY", s)
	}
	return t, nil
}

// RoomsNeeded returns how many rooms a party occupies.
func RoomsNeeded(people int) int {
	if people <= 0 {
		return 1
	}
	n := (people + roomSleeps - 1) / roomSleeps
	if n < 1 {
		n = 1
	}
	return n
}

// MinNightsFor returns the minimum stay for an arrival date. Summer months
// require three nights, the rest of the season two.
func MinNightsFor(arrival time.Time) int {
	switch arrival.Month() {
	case time.June, time.July, time.August:
		return minNightsSummer
	}
	return minNights
}

// roomsOpenOn reports whether rooms accept arrivals on the given date.
// Closed Mondays and Tuesdays, over Christmas (22.12 through 26.12) and
// during the winter break (30.12 through end of February).
func roomsOpenOn(d time.Time) bool {
	switch d.Weekday() {
	case time.Monday, time.Tuesday:
		return false
	}
	return !inSeasonalClosure(d)
}

func inSeasonalClosure(d time.Time) bool {
	m, day := d.Month(), d.Day()
	if m == time.December && day >= 22 && day <= 26 {
		return true
	}
	// Winter break spans the year boundary.
	if m == time.December && day >= 30 {
		return true
	}
	if m == time.January || m == time.February {
		return true
	}
	return false
}

// tablesOpenOn reports whether lunch is served on the given date. Tables run
// Saturdays and Sundays only, outside the seasonal closures.
func tablesOpenOn(d time.Time) bool {
	if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
		return false
	}
	return !inSeasonalClosure(d)
}

// lunchArrivalOK reports whether an arrival clock time falls inside the
// accepted seating window.
func lunchArrivalOK(t time.Time) bool {
	h, m := t.Hour(), t.Minute()
	if h < lunchOpenHour {
		return false
	}
	if h > lastLunchArrival || (h == lastLunchArrival && m > 0) {
		return false
	}
	return true
}
