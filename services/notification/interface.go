package notification

import (
	"context"
	"fmt"

	"podgoro/config"
	"podgoro/models"
	"podgoro/utils"

	"go.uber.org/zap"
)

// NotificationService delivers reservation alerts and guest reminders.
type NotificationService interface {
	SendReservationAlert(ctx context.Context, p models.ReservationNotifyPayload) error
	SendArrivalReminder(ctx context.Context, p models.ArrivalReminderPayload) error
}

// LogNotificationService is the default delivery sink: it writes the alert to
// the structured log. Mail or messaging transports can replace it without
// touching the queue plumbing.
type LogNotificationService struct{}

func NewLogNotificationService() *LogNotificationService {
	return &LogNotificationService{}
}

// SendReservationAlert logs the alert for the admin address and the guest.
func (s *LogNotificationService) SendReservationAlert(ctx context.Context, p models.ReservationNotifyPayload) error {
	if p.ReservationID == "" {
		return fmt.Errorf("notification: payload has no reservation id")
	}
	utils.GetLogger().Info("reservation alert",
		zap.String("reservationId", p.ReservationID),
		zap.String("type", p.Type),
		zap.String("date", p.Date),
		zap.String("guest", p.GuestName),
		zap.String("guestEmail", p.GuestEmail),
		zap.String("adminEmail", config.AppConfig.AdminEmail),
		zap.String("summary", p.Summary),
	)
	return nil
}

// SendArrivalReminder logs the reminder for the guest's address.
func (s *LogNotificationService) SendArrivalReminder(ctx context.Context, p models.ArrivalReminderPayload) error {
	if p.ReservationID == "" {
		return fmt.Errorf("notification: payload has no reservation id")
	}
	utils.GetLogger().Info("arrival reminder",
		zap.String("reservationId", p.ReservationID),
		zap.String("type", p.Type),
		zap.String("date", p.Date),
		zap.String("guest", p.GuestName),
		zap.String("guestEmail", p.GuestEmail),
	)
	return nil
}
