package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"podgoro/config"
	"podgoro/models"
	"podgoro/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeReservationNotify = "reservation:notify"

// NewReservationNotifyTask builds the queued task for a new pending
// reservation.
func NewReservationNotifyTask(payload models.ReservationNotifyPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReservationNotify, b), nil
}

// AsynqNotifier enqueues reservation alerts onto the background queue. It
// implements the reservation service's Notifier; enqueue failures are logged
// and swallowed so a queue outage never fails a booking.
type AsynqNotifier struct {
	client *asynq.Client
}

func NewAsynqNotifier() *AsynqNotifier {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) ReservationCreated(ctx context.Context, res *models.Reservation) {
	payload := models.ReservationNotifyPayload{
		ReservationID: res.ID,
		Type:          res.Type,
		Date:          res.Date,
		GuestName:     res.GuestName,
		GuestEmail:    res.Email,
		Summary:       summarize(res),
	}
	task, err := NewReservationNotifyTask(payload)
	if err != nil {
		utils.GetLogger().Error("failed to build reservation notify task", zap.Error(err))
		return
	}
	if _, err := n.client.EnqueueContext(ctx, task); err != nil {
		utils.GetLogger().Error("failed to enqueue reservation notify task",
			zap.String("reservationId", res.ID), zap.Error(err))
	}
}

func summarize(res *models.Reservation) string {
	if res.Type == models.ReservationRoom {
		return fmt.Sprintf("Soba: prihod %s, %d nočitev, %d oseb, %s",
			res.Date, res.Nights, res.People, res.GuestName)
	}
	return fmt.Sprintf("Miza: %s ob %s, %d oseb, %s",
		res.Date, res.Time, res.People, res.GuestName)
}
