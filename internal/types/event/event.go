package event

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	IsPrivate   bool      `json:"is_private" db:"is_private"`
	Flags       string    `json:"flags" db:"flags"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Prop struct {
	Name  string `json:"name" db:"prop_name"`
	Value string `json:"value" db:"prop_value"`
}

type EventWithProps struct {
	Event
	Props []Prop `json:"props"`
}

// UserEvent is an event as seen by a particular user: the event plus that
// user's current streak in it.
type UserEvent struct {
	EventWithProps
	StreakCount int `json:"streak_count"`
}

type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
	Flags       string `json:"flags"`
	Props       []Prop `json:"props,omitempty"`
}
