package models

import "time"

// Turn is one message in a conversation, either side.
type Turn struct {
	Role string    `json:"role"` // "user" or "assistant"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// ReservationDraft holds the fields collected so far while a guest walks
// through the reservation flow. Step names which question is open.
type ReservationDraft struct {
	Type     string `json:"type"` // "room" or "table"
	Step     string `json:"step"`
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Nights   int    `json:"nights,omitempty"`
	People   int    `json:"people,omitempty"`
	Kids     int    `json:"kids,omitempty"`
	KidsAges string `json:"kids_ages,omitempty"`
	Location string `json:"location,omitempty"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Dinner   bool   `json:"dinner,omitempty"`
	Note     string `json:"note,omitempty"`
}

// ChatSession holds the per-conversation state between turns: a bounded
// message history and the in-progress reservation draft, if any.
type ChatSession struct {
	SessionID string            `json:"session_id"`
	Turns     []Turn            `json:"turns,omitempty"`
	Draft     *ReservationDraft `json:"draft,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}
