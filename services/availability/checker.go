package availability

import (
	"context"
	"fmt"
	"time"

	"podgoro/models"
)

// OccupancyReader supplies the reservations that would share resources with a
// slot. Both pending and confirmed reservations count against capacity.
type OccupancyReader interface {
	FindOverlapping(ctx context.Context, slot models.Slot) ([]models.Reservation, error)
}

// Checker answers whether a slot can be taken right now. The answer is
// advisory: the reservation store re-runs the conflict side of the check
// inside its atomic write.
type Checker struct {
	Occupancy OccupancyReader
}

// NewChecker builds a checker over the given occupancy source.
func NewChecker(occ OccupancyReader) *Checker {
	return &Checker{Occupancy: occ}
}

// maxSuggestDays bounds the forward scan when proposing alternative dates.
const maxSuggestDays = 28

// Validate rejects slots the checker cannot reason about: unknown type, bad
// date or time, party sizes the house can never hold. It is total over all
// inputs; anything it accepts gets a definite available/unavailable verdict.
func Validate(slot models.Slot) error {
	if slot.Type != models.ReservationRoom && slot.Type != models.ReservationTable {
		return NewValidationError(fmt.Sprintf("Neznana vrsta rezervacije %q.", slot.Type))
	}
	arrival, err := ParseDate(slot.Date)
	if err != nil {
		return NewValidationError(fmt.Sprintf("Datum %q ni veljaven. Uporabite obliko DD.MM.LLLL.", slot.Date))
	}
	if arrival.Before(today()) {
		return NewValidationError("Datum prihoda je že mimo.")
	}
	if slot.People < 1 {
		return NewValidationError("Število oseb mora biti vsaj 1.")
	}

	switch slot.Type {
	case models.ReservationRoom:
		if slot.People > maxRoomGuests {
			return NewValidationError(fmt.Sprintf("V sobah lahko prenoči skupaj največ %d gostov.", maxRoomGuests))
		}
		if min := MinNightsFor(arrival); slot.Nights < min {
			return NewValidationError(fmt.Sprintf("Za ta prihod je najkrajše bivanje %d noči.", min))
		}
	case models.ReservationTable:
		if slot.People > maxTableParty {
			return NewValidationError(fmt.Sprintf("Ena skupina lahko šteje največ %d oseb.", maxTableParty))
		}
		if _, err := time.Parse(TimeLayout, slot.Time); err != nil {
			return NewValidationError(fmt.Sprintf("Ura %q ni veljavna. Uporabite obliko HH:MM.", slot.Time))
		}
	}
	return nil
}

// ValidateOpen rejects slots that fall outside the opening rules: closed
// weekdays, seasonal closures, lunch arrivals after the last seating. The
// reservation store applies it before writing so a closed slot can never
// become a pending reservation.
func ValidateOpen(slot models.Slot) error {
	arrival, err := ParseDate(slot.Date)
	if err != nil {
		return NewValidationError(fmt.Sprintf("Datum %q ni veljaven. Uporabite obliko DD.MM.LLLL.", slot.Date))
	}
	switch slot.Type {
	case models.ReservationRoom:
		if !roomsOpenOn(arrival) {
			return NewValidationError(roomClosedMessage(arrival))
		}
	case models.ReservationTable:
		if !tablesOpenOn(arrival) {
			return NewValidationError(tableClosedMessage)
		}
		clock, err := time.Parse(TimeLayout, slot.Time)
		if err != nil || !lunchArrivalOK(clock) {
			return NewValidationError(lunchWindowMessage)
		}
	}
	return nil
}

// Check validates the slot, applies opening rules, then consults occupancy.
func (c *Checker) Check(ctx context.Context, slot models.Slot) (models.CheckResult, error) {
	if err := Validate(slot); err != nil {
		return models.CheckResult{}, err
	}
	arrival, _ := ParseDate(slot.Date)

	if res, closed := c.checkOpen(slot, arrival); closed {
		return res, nil
	}

	overlapping, conflicted, err := c.hasConflict(ctx, slot)
	if err != nil {
		return models.CheckResult{}, err
	}
	if conflicted {
		alts, altErr := c.alternativeDates(ctx, slot, arrival)
		if altErr != nil {
			alts = nil
		}
		return models.CheckResult{
			Available:    false,
			Reason:       models.ReasonConflict,
			Message:      conflictMessage(slot),
			Alternatives: alts,
			Conflicts:    overlapping,
		}, nil
	}

	return models.CheckResult{Available: true, Message: availableMessage(slot)}, nil
}

// checkOpen applies the opening-hours rules only. The second return value is
// true when the slot is outside service.
func (c *Checker) checkOpen(slot models.Slot, arrival time.Time) (models.CheckResult, bool) {
	switch slot.Type {
	case models.ReservationRoom:
		if !roomsOpenOn(arrival) {
			return models.CheckResult{
				Available:    false,
				Reason:       models.ReasonOutsideHours,
				Message:      roomClosedMessage(arrival),
				Alternatives: c.nextOpenDates(slot, arrival, 2),
			}, true
		}
	case models.ReservationTable:
		if !tablesOpenOn(arrival) {
			return models.CheckResult{
				Available:    false,
				Reason:       models.ReasonOutsideHours,
				Message:      tableClosedMessage,
				Alternatives: c.nextOpenDates(slot, arrival, 2),
			}, true
		}
		arrivalClock, _ := time.Parse(TimeLayout, slot.Time)
		if !lunchArrivalOK(arrivalClock) {
			return models.CheckResult{
				Available: false,
				Reason:    models.ReasonOutsideHours,
				Message:   lunchWindowMessage,
			}, true
		}
	}
	return models.CheckResult{}, false
}

// hasConflict reports whether current occupancy leaves no room for the slot,
// along with the reservations competing for the same resources.
func (c *Checker) hasConflict(ctx context.Context, slot models.Slot) ([]models.Reservation, bool, error) {
	overlapping, err := c.Occupancy.FindOverlapping(ctx, slot)
	if err != nil {
		return nil, false, fmt.Errorf("availability: occupancy lookup failed: %w", err)
	}
	return overlapping, ExceedsCapacity(slot, overlapping), nil
}

// ExceedsCapacity computes whether adding the slot to the given overlapping
// reservations would overbook the house. The reservation store uses the same
// function for its authoritative re-check.
func ExceedsCapacity(slot models.Slot, overlapping []models.Reservation) bool {
	switch slot.Type {
	case models.ReservationRoom:
		needed := RoomsNeeded(slot.People)
		for _, night := range NightKeys(slot) {
			used := 0
			for _, r := range overlapping {
				if r.Type != models.ReservationRoom {
					continue
				}
				if containsNight(r, night) {
					used += RoomsNeeded(r.People)
				}
			}
			if used+needed > TotalRooms {
				return true
			}
		}
		return false
	case models.ReservationTable:
		seated := 0
		for _, r := range overlapping {
			if r.Type == models.ReservationTable && r.Date == slot.Date {
				seated += r.People
			}
		}
		return seated+slot.People > DiningSeats
	}
	return false
}

// NightKeys lists the occupied calendar days of a slot in "YYYY-MM-DD" form.
// Tables occupy a single day; room stays occupy one key per night.
func NightKeys(slot models.Slot) []string {
	arrival, err := ParseDate(slot.Date)
	if err != nil {
		return nil
	}
	if slot.Type == models.ReservationTable {
		return []string{arrival.Format("2006-01-02")}
	}
	n := slot.Nights
	if n < 1 {
		n = 1
	}
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, arrival.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return keys
}

func containsNight(r models.Reservation, night string) bool {
	slot := models.Slot{Type: r.Type, Date: r.Date, Nights: r.Nights, People: r.People}
	for _, k := range NightKeys(slot) {
		if k == night {
			return true
		}
	}
	return false
}

// nextOpenDates scans forward for dates that pass the opening rules.
func (c *Checker) nextOpenDates(slot models.Slot, from time.Time, max int) []string {
	var out []string
	for i := 1; i <= maxSuggestDays && len(out) < max; i++ {
		d := from.AddDate(0, 0, i)
		open := false
		switch slot.Type {
		case models.ReservationRoom:
			open = roomsOpenOn(d)
		case models.ReservationTable:
			open = tablesOpenOn(d)
		}
		if open {
			out = append(out, d.Format(DateLayout))
		}
	}
	return out
}

// alternativeDates scans forward for dates that pass both the opening rules
// and the conflict check.
func (c *Checker) alternativeDates(ctx context.Context, slot models.Slot, from time.Time) ([]string, error) {
	var out []string
	for i := 1; i <= maxSuggestDays && len(out) < 2; i++ {
		d := from.AddDate(0, 0, i)
		candidate := slot
		candidate.Date = d.Format(DateLayout)
		if _, closed := c.checkOpen(candidate, d); closed {
			continue
		}
		_, conflicted, err := c.hasConflict(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !conflicted {
			out = append(out, candidate.Date)
		}
	}
	return out, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

const (
	tableClosedMessage = "Kosila strežemo samo ob sobotah in nedeljah med 12:00 in 20:00."
	lunchWindowMessage = "Prihod na kosilo je možen med 12:00 in 15:00."
)

func roomClosedMessage(arrival time.Time) string {
	if inSeasonalClosure(arrival) {
		return "V zimskem času (od 30.12. do konca februarja) in med božičnimi prazniki smo zaprti."
	}
	return "Ob ponedeljkih in torkih so sobe zaprte. Prihod je možen od srede do nedelje."
}

func conflictMessage(slot models.Slot) string {
	if slot.Type == models.ReservationRoom {
		return fmt.Sprintf("Za %s žal nimamo dovolj prostih sob.", slot.Date)
	}
	return fmt.Sprintf("Za %s so vse mize žal že zasedene.", slot.Date)
}

func availableMessage(slot models.Slot) string {
	if slot.Type == models.ReservationRoom {
		return fmt.Sprintf("Za prihod %s imamo proste sobe.", slot.Date)
	}
	return fmt.Sprintf("Za %s ob %s imamo prosto mizo.", slot.Date, slot.Time)
}
