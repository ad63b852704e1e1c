package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	reservationRepo "podgoro/database/repository/reservation"
	"podgoro/models"
	"podgoro/services/availability"
	"podgoro/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultReservationService is the production implementation.
type DefaultReservationService struct {
	Repo     reservationRepo.ReservationRepository
	Notifier Notifier
}

// Create validates the draft, runs the slot through the business rules and
// hands the capacity decision to the store's atomic create.
func (s *DefaultReservationService) Create(ctx context.Context, draft *models.ReservationDraft, sessionID string) (*models.Reservation, error) {
	if draft == nil {
		return nil, NewValidationError("reservation draft is empty")
	}
	if err := validateContact(draft); err != nil {
		return nil, err
	}

	slot := models.Slot{
		Type:   draft.Type,
		Date:   draft.Date,
		Time:   draft.Time,
		Nights: draft.Nights,
		People: draft.People,
	}
	if err := availability.Validate(slot); err != nil {
		return nil, asValidation(err)
	}
	if err := availability.ValidateOpen(slot); err != nil {
		return nil, asValidation(err)
	}

	res := &models.Reservation{
		ID:        uuid.NewString(),
		Type:      draft.Type,
		Date:      draft.Date,
		Time:      draft.Time,
		Nights:    draft.Nights,
		People:    draft.People,
		Kids:      draft.Kids,
		KidsAges:  draft.KidsAges,
		Location:  draft.Location,
		GuestName: draft.Name,
		Phone:     draft.Phone,
		Email:     draft.Email,
		Dinner:    draft.Dinner,
		Note:      draft.Note,
		SessionID: sessionID,
	}

	if err := s.Repo.CreatePending(ctx, res); err != nil {
		if errors.Is(err, reservationRepo.ErrSlotTaken) {
			return nil, NewConflictError("the requested slot was taken in the meantime")
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	if s.Notifier != nil {
		s.Notifier.ReservationCreated(ctx, res)
	}
	utils.GetLogger().Info("reservation created",
		zap.String("id", res.ID),
		zap.String("type", res.Type),
		zap.String("date", res.Date),
		zap.Int("people", res.People))
	return res, nil
}

// Confirm moves a pending reservation to confirmed.
func (s *DefaultReservationService) Confirm(ctx context.Context, id string) (*models.Reservation, error) {
	res, err := s.transition(ctx, id, models.ReservationConfirmed)
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.Notifier.ReservationConfirmed(ctx, res)
	}
	return res, nil
}

// Reject moves a pending reservation to rejected and frees its capacity.
func (s *DefaultReservationService) Reject(ctx context.Context, id string) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationRejected)
}

func (s *DefaultReservationService) transition(ctx context.Context, id, to string) (*models.Reservation, error) {
	res, err := s.Repo.Transition(ctx, id, to)
	if err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrNotFound):
			return nil, NewNotFoundError(fmt.Sprintf("reservation %s not found", id))
		case errors.Is(err, reservationRepo.ErrNotPending):
			return nil, NewConflictError(fmt.Sprintf("reservation %s already left the pending state", id))
		}
		return nil, fmt.Errorf("transition reservation %s to %s: %w", id, to, err)
	}
	utils.GetLogger().Info("reservation transitioned",
		zap.String("id", id), zap.String("status", to))
	return res, nil
}

// ListByStatus returns reservations in one status.
func (s *DefaultReservationService) ListByStatus(ctx context.Context, status string) ([]models.Reservation, error) {
	switch status {
	case models.ReservationPending, models.ReservationConfirmed, models.ReservationRejected:
	default:
		return nil, NewValidationError(fmt.Sprintf("unknown status %q", status))
	}
	return s.Repo.ListByStatus(ctx, status)
}

// asValidation maps an availability rule failure to this package's
// validation error, keeping the guest-facing message.
func asValidation(err error) error {
	var re *availability.RuleError
	if errors.As(err, &re) {
		return NewValidationError(re.Message)
	}
	return NewValidationError(err.Error())
}

// validateContact applies the contact-detail rules ahead of persistence.
func validateContact(d *models.ReservationDraft) error {
	if len(strings.Fields(d.Name)) < 2 {
		return NewValidationError("guest name must include first and last name")
	}
	digits := 0
	for _, r := range d.Phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 7 {
		return NewValidationError("phone number must contain at least 7 digits")
	}
	at := strings.Index(d.Email, "@")
	if at < 1 || !strings.Contains(d.Email[at:], ".") {
		return NewValidationError("email address looks invalid")
	}
	return nil
}
