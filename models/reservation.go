package models

import "time"

// Reservation statuses. A reservation is created as pending and moves to
// exactly one of the terminal states when staff review it.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationRejected  = "rejected"
)

// Reservation types.
const (
	ReservationRoom  = "room"
	ReservationTable = "table"
)

// Reservation is a persisted guest reservation record.
type Reservation struct {
	ID        string `bson:"id" json:"id"`                         // Unique reservation identifier (UUID)
	Type      string `bson:"type" json:"type"`                     // "room" or "table"
	Date      string `bson:"date" json:"date"`                     // Arrival date in "DD.MM.YYYY" format
	Time      string `bson:"time,omitempty" json:"time,omitempty"` // Table arrival time "HH:MM" (tables only)
	Nights    int    `bson:"nights,omitempty" json:"nights,omitempty"`
	People    int    `bson:"people" json:"people"` // Total party size, children included
	Kids      int    `bson:"kids,omitempty" json:"kids,omitempty"`
	KidsAges  string `bson:"kids_ages,omitempty" json:"kids_ages,omitempty"`
	Location  string `bson:"location,omitempty" json:"location,omitempty"` // Preferred room or dining room
	GuestName string `bson:"guest_name" json:"guest_name"`
	Phone     string `bson:"phone" json:"phone"`
	Email     string `bson:"email" json:"email"`
	Dinner    bool   `bson:"dinner,omitempty" json:"dinner,omitempty"` // Room stays: dinner add-on
	Note      string `bson:"note,omitempty" json:"note,omitempty"`
	Status    string `bson:"status" json:"status"`
	SessionID string `bson:"session_id,omitempty" json:"session_id,omitempty"` // Conversation that produced it

	// NightKeys holds one "YYYY-MM-DD" key per occupied calendar day and is
	// what overlap queries match on. Filled in by the store on create.
	NightKeys []string `bson:"night_keys" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Slot identifies the resource window a reservation would occupy. It is the
// unit both the availability checker and the store's conflict re-check work on.
type Slot struct {
	Type   string `json:"type"`
	Date   string `json:"date"`             // "DD.MM.YYYY"
	Time   string `json:"time,omitempty"`   // tables
	Nights int    `json:"nights,omitempty"` // rooms
	People int    `json:"people"`
}

// CheckResult is the availability checker's advisory verdict for a slot.
type CheckResult struct {
	Available    bool     `json:"available"`
	Reason       string   `json:"reason,omitempty"` // "outside_business_hours" or "conflict" when unavailable
	Message      string   `json:"message"`          // guest-facing explanation
	Alternatives []string `json:"alternatives,omitempty"`

	// Conflicts carries the reservations competing for the slot's resources
	// when Reason is "conflict".
	Conflicts []Reservation `json:"conflicts,omitempty"`
}

// Availability check failure reasons.
const (
	ReasonOutsideHours = "outside_business_hours"
	ReasonConflict     = "conflict"
)
