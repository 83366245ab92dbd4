package leaderboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/SharathChampzz/Community-Streak/internal/types/event"
)

const (
	StatusMember    = "Part of the event"
	StatusNotMember = "Not part of the event"
)

type TopUser struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Username    string    `json:"username" db:"username"`
	StreakCount int       `json:"streak_count" db:"streak_count"`
}

// UserDetails is the requesting user's own slice of the leaderboard. Rank is
// 1-based over the full event ordering, not just the returned page.
type UserDetails struct {
	Status              string     `json:"status"`
	StreakCount         int        `json:"streak_count,omitempty"`
	LastModified        *time.Time `json:"last_modified,omitempty"`
	Rank                int        `json:"rank,omitempty"`
	RequestUpdateStreak bool       `json:"request_update_streak"`
}

type EventDetails struct {
	event.EventWithProps
	TopUsers    []TopUser    `json:"top_users"`
	UserDetails *UserDetails `json:"user_details,omitempty"`
	UserCount   int          `json:"user_counts"`
}
