// Package reservation owns the reservation lifecycle: creation from a
// completed conversation draft, and the staff confirm/reject transitions.
package reservation

import (
	"context"

	"podgoro/models"
)

// Notifier is told about reservation lifecycle events. Delivery is best
// effort and must never block or fail the triggering request.
type Notifier interface {
	ReservationCreated(ctx context.Context, res *models.Reservation)
	ReservationConfirmed(ctx context.Context, res *models.Reservation)
}

// ReservationService is the API the chat flow and admin handlers talk to.
type ReservationService interface {
	// Create validates the draft and persists a pending reservation. A
	// capacity conflict surfaces as a conflict ServiceError; retrying the
	// same draft yields the same conflict and writes nothing.
	Create(ctx context.Context, draft *models.ReservationDraft, sessionID string) (*models.Reservation, error)
	Confirm(ctx context.Context, id string) (*models.Reservation, error)
	Reject(ctx context.Context, id string) (*models.Reservation, error)
	ListByStatus(ctx context.Context, status string) ([]models.Reservation, error)
}
