package membership

import (
	"time"

	"github.com/google/uuid"
)

// Membership is one user's participation in one event. (user_id, event_id)
// is the natural key; LastModified is nil until the first completion.
type Membership struct {
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	EventID      uuid.UUID  `json:"event_id" db:"event_id"`
	StreakCount  int        `json:"streak_count" db:"streak_count"`
	LastModified *time.Time `json:"last_modified" db:"modified"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
