package tasks

import (
	"context"
	"encoding/json"
	"time"

	"podgoro/models"
	"podgoro/services/availability"
	"podgoro/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeArrivalReminder = "reservation:reminder"

// reminderHour is the local hour at which arrival reminders fire.
const reminderHour = 8

// NewArrivalReminderTask builds the scheduled reminder task.
func NewArrivalReminderTask(payload models.ArrivalReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeArrivalReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReservationConfirmed schedules a guest reminder for the morning before
// arrival. Reservations confirmed too close to the date get no reminder.
func (n *AsynqNotifier) ReservationConfirmed(ctx context.Context, res *models.Reservation) {
	arrival, err := availability.ParseDate(res.Date)
	if err != nil {
		utils.GetLogger().Error("cannot schedule arrival reminder",
			zap.String("reservationId", res.ID), zap.Error(err))
		return
	}
	fireAt := time.Date(arrival.Year(), arrival.Month(), arrival.Day()-1,
		reminderHour, 0, 0, 0, time.Local)
	if !fireAt.After(time.Now()) {
		return
	}

	payload := models.ArrivalReminderPayload{
		ReservationID: res.ID,
		Type:          res.Type,
		Date:          res.Date,
		Time:          res.Time,
		GuestName:     res.GuestName,
		GuestEmail:    res.Email,
	}
	task, opts, err := NewArrivalReminderTask(payload, fireAt)
	if err != nil {
		utils.GetLogger().Error("failed to build arrival reminder task", zap.Error(err))
		return
	}
	if _, err := n.client.EnqueueContext(ctx, task, opts...); err != nil {
		utils.GetLogger().Error("failed to enqueue arrival reminder task",
			zap.String("reservationId", res.ID), zap.Error(err))
	}
}
