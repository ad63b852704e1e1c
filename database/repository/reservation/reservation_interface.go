package reservationRepo

import (
	"context"
	"errors"

	"podgoro/models"
)

// Errors returned by the store. Callers map these onto their own error
// taxonomy.
var (
	// ErrSlotTaken is returned when the atomic capacity re-check inside
	// CreatePending finds the slot exhausted.
	ErrSlotTaken = errors.New("slot capacity exhausted")
	// ErrNotFound is returned when no reservation has the given id.
	ErrNotFound = errors.New("reservation not found")
	// ErrNotPending is returned when a transition is attempted on a
	// reservation that already left the pending state.
	ErrNotPending = errors.New("reservation is not pending")
)

// ReservationRepository defines persistence for guest reservations.
//
// CreatePending is the authoritative serialization point for double-booking:
// it re-runs the capacity check inside the same atomic write that inserts the
// row, so a stale advisory availability answer can never produce an
// overbooked slot.
type ReservationRepository interface {
	CreatePending(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	// Transition moves a pending reservation to confirmed or rejected.
	// Terminal states are frozen; anything else returns ErrNotPending.
	Transition(ctx context.Context, id, to string) (*models.Reservation, error)
	ListByStatus(ctx context.Context, status string) ([]models.Reservation, error)
	// FindOverlapping returns pending and confirmed reservations sharing at
	// least one occupied day with the slot.
	FindOverlapping(ctx context.Context, slot models.Slot) ([]models.Reservation, error)
}
