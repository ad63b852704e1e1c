package models

// ReservationNotifyPayload is the queued task payload for alerting staff and
// the guest that a new pending reservation was created.
type ReservationNotifyPayload struct {
	ReservationID string `json:"reservation_id"`
	Type          string `json:"type"`
	Date          string `json:"date"`
	GuestName     string `json:"guest_name"`
	GuestEmail    string `json:"guest_email"`
	Summary       string `json:"summary"`
}

// ArrivalReminderPayload is the scheduled task payload for reminding a guest
// of a confirmed reservation shortly before arrival.
type ArrivalReminderPayload struct {
	ReservationID string `json:"reservation_id"`
	Type          string `json:"type"`
	Date          string `json:"date"`
	Time          string `json:"time,omitempty"`
	GuestName     string `json:"guest_name"`
	GuestEmail    string `json:"guest_email"`
}
