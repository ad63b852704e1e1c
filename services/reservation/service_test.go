package reservation_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	reservationRepo "podgoro/database/repository/reservation"
	"podgoro/models"
	"podgoro/services/availability"
	"podgoro/services/reservation"
)

// memRepo mirrors the store's guard semantics in memory: capacity is checked
// and claimed under one lock, so concurrent creates serialize exactly as the
// Mongo transaction does.
type memRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Reservation
	occ  map[string]int
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*models.Reservation{}, occ: map[string]int{}}
}

func (m *memRepo) unitsAndCap(res *models.Reservation) (int, int) {
	if res.Type == models.ReservationRoom {
		return availability.RoomsNeeded(res.People), availability.TotalRooms
	}
	return res.People, availability.DiningSeats
}

func (m *memRepo) CreatePending(ctx context.Context, res *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	nights := availability.NightKeys(models.Slot{
		Type: res.Type, Date: res.Date, Nights: res.Nights, People: res.People,
	})
	units, capacity := m.unitsAndCap(res)
	for _, n := range nights {
		if m.occ[res.Type+"|"+n]+units > capacity {
			return reservationRepo.ErrSlotTaken
		}
	}
	for _, n := range nights {
		m.occ[res.Type+"|"+n] += units
	}
	res.Status = models.ReservationPending
	res.NightKeys = nights
	res.CreatedAt = time.Now()
	cp := *res
	m.rows[res.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, reservationRepo.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) Transition(ctx context.Context, id, to string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, reservationRepo.ErrNotFound
	}
	if r.Status != models.ReservationPending {
		return nil, reservationRepo.ErrNotPending
	}
	r.Status = to
	if to == models.ReservationRejected {
		units, _ := m.unitsAndCap(r)
		for _, n := range r.NightKeys {
			m.occ[r.Type+"|"+n] -= units
		}
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) ListByStatus(ctx context.Context, status string) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reservation
	for _, r := range m.rows {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRepo) FindOverlapping(ctx context.Context, slot models.Slot) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[string]struct{}{}
	for _, n := range availability.NightKeys(slot) {
		want[n] = struct{}{}
	}
	var out []models.Reservation
	for _, r := range m.rows {
		if r.Type != slot.Type {
			continue
		}
		if r.Status != models.ReservationPending && r.Status != models.ReservationConfirmed {
			continue
		}
		for _, n := range r.NightKeys {
			if _, ok := want[n]; ok {
				out = append(out, *r)
				break
			}
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	ids       []string
	confirmed []string
}

func (n *recordingNotifier) ReservationCreated(ctx context.Context, res *models.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, res.ID)
}

func (n *recordingNotifier) ReservationConfirmed(ctx context.Context, res *models.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, res.ID)
}

// futureFriday returns the next Friday outside the seasonal closures,
// formatted for guest input.
func futureFriday(t *testing.T) string {
	t.Helper()
	d := time.Now().AddDate(0, 0, 1)
	for i := 0; i < 400; i++ {
		m := d.Month()
		if d.Weekday() == time.Friday && m != time.December && m != time.January && m != time.February {
			return d.Format(availability.DateLayout)
		}
		d = d.AddDate(0, 0, 1)
	}
	t.Fatal("no usable Friday found")
	return ""
}

func roomDraft(date string) *models.ReservationDraft {
	return &models.ReservationDraft{
		Type:   models.ReservationRoom,
		Date:   date,
		Nights: 3,
		People: 4,
		Name:   "Ana Kovač",
		Phone:  "031 777 888",
		Email:  "ana.kovac@example.com",
	}
}

func TestCreatePersistsPendingReservation(t *testing.T) {
	repo := newMemRepo()
	notifier := &recordingNotifier{}
	svc := &reservation.DefaultReservationService{Repo: repo, Notifier: notifier}

	res, err := svc.Create(context.Background(), roomDraft(futureFriday(t)), "sess-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if res.Status != models.ReservationPending {
		t.Errorf("new reservation must be pending, got %q", res.Status)
	}
	if res.ID == "" {
		t.Errorf("reservation must get an id")
	}
	if len(notifier.ids) != 1 || notifier.ids[0] != res.ID {
		t.Errorf("notifier should be told once about %s, got %v", res.ID, notifier.ids)
	}
}

func TestCreateRejectsBadContactDetails(t *testing.T) {
	svc := &reservation.DefaultReservationService{Repo: newMemRepo()}
	date := futureFriday(t)

	cases := []struct {
		name   string
		mutate func(*models.ReservationDraft)
	}{
		{"single-word name", func(d *models.ReservationDraft) { d.Name = "Ana" }},
		{"short phone", func(d *models.ReservationDraft) { d.Phone = "12345" }},
		{"email without at", func(d *models.ReservationDraft) { d.Email = "ana.example.com" }},
		{"email without dot", func(d *models.ReservationDraft) { d.Email = "ana@example" }},
	}
	for _, tc := range cases {
		d := roomDraft(date)
		tc.mutate(d)
		_, err := svc.Create(context.Background(), d, "sess-1")
		if !reservation.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

// futureDay finds the next date with the given weekday outside the seasonal
// closures.
func futureDay(t *testing.T, wd time.Weekday) string {
	t.Helper()
	d := time.Now().AddDate(0, 0, 1)
	for i := 0; i < 400; i++ {
		m := d.Month()
		if d.Weekday() == wd && m != time.December && m != time.January && m != time.February {
			return d.Format(availability.DateLayout)
		}
		d = d.AddDate(0, 0, 1)
	}
	t.Fatalf("no usable %s found", wd)
	return ""
}

func TestCreateRejectsClosedDays(t *testing.T) {
	repo := newMemRepo()
	svc := &reservation.DefaultReservationService{Repo: repo}
	ctx := context.Background()

	// Rooms take no arrivals on Mondays.
	_, err := svc.Create(ctx, roomDraft(futureDay(t, time.Monday)), "sess-closed")
	if !reservation.IsValidation(err) {
		t.Fatalf("Monday room arrival must fail validation, got %v", err)
	}

	// Lunch runs on weekends only.
	tableDraft := &models.ReservationDraft{
		Type:   models.ReservationTable,
		Date:   futureDay(t, time.Wednesday),
		Time:   "13:00",
		People: 4,
		Name:   "Ana Kovač",
		Phone:  "031 777 888",
		Email:  "ana.kovac@example.com",
	}
	if _, err := svc.Create(ctx, tableDraft, "sess-closed"); !reservation.IsValidation(err) {
		t.Fatalf("weekday lunch must fail validation, got %v", err)
	}

	pending, err := repo.ListByStatus(ctx, models.ReservationPending)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("closed-day creates must not persist anything, got %d rows", len(pending))
	}
}

func TestConcurrentCreatesYieldExactlyOnePending(t *testing.T) {
	repo := newMemRepo()
	svc := &reservation.DefaultReservationService{Repo: repo}
	date := futureFriday(t)

	// The whole house: each draft needs all three rooms, so only one of the
	// two concurrent creates can claim the slot.
	bigParty := func() *models.ReservationDraft {
		d := roomDraft(date)
		d.People = 12
		return d
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), bigParty(), fmt.Sprintf("sess-%d", n))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	success, conflict := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			success++
		case reservation.IsConflict(err):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 || conflict != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", success, conflict)
	}

	pending, err := svc.ListByStatus(context.Background(), models.ReservationPending)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected exactly one pending reservation, got %d", len(pending))
	}
}

func TestCreateAfterConflictIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	svc := &reservation.DefaultReservationService{Repo: repo}
	date := futureFriday(t)

	first := roomDraft(date)
	first.People = 12
	if _, err := svc.Create(context.Background(), first, "sess-1"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	retry := roomDraft(date)
	retry.People = 12
	for i := 0; i < 2; i++ {
		_, err := svc.Create(context.Background(), retry, "sess-2")
		if !reservation.IsConflict(err) {
			t.Fatalf("attempt %d: expected conflict, got %v", i+1, err)
		}
	}

	pending, _ := svc.ListByStatus(context.Background(), models.ReservationPending)
	if len(pending) != 1 {
		t.Fatalf("conflicted retries must not write rows, got %d pending", len(pending))
	}
}

func TestTransitionsAreTerminal(t *testing.T) {
	repo := newMemRepo()
	notifier := &recordingNotifier{}
	svc := &reservation.DefaultReservationService{Repo: repo, Notifier: notifier}

	res, err := svc.Create(context.Background(), roomDraft(futureFriday(t)), "sess-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	confirmed, err := svc.Confirm(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != models.ReservationConfirmed {
		t.Errorf("expected confirmed, got %q", confirmed.Status)
	}
	if len(notifier.confirmed) != 1 || notifier.confirmed[0] != res.ID {
		t.Errorf("notifier should be told about the confirmation of %s, got %v", res.ID, notifier.confirmed)
	}

	if _, err := svc.Reject(context.Background(), res.ID); !reservation.IsConflict(err) {
		t.Errorf("transition out of a terminal state must conflict, got %v", err)
	}
	if _, err := svc.Confirm(context.Background(), "no-such-id"); !reservation.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestRejectFreesCapacity(t *testing.T) {
	repo := newMemRepo()
	svc := &reservation.DefaultReservationService{Repo: repo}
	date := futureFriday(t)

	whole := roomDraft(date)
	whole.People = 12
	res, err := svc.Create(context.Background(), whole, "sess-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Reject(context.Background(), res.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	// The slot is bookable again after rejection.
	again := roomDraft(date)
	again.People = 12
	if _, err := svc.Create(context.Background(), again, "sess-2"); err != nil {
		t.Fatalf("create after reject failed: %v", err)
	}
}
