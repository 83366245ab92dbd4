package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Flags        string    `json:"flags" db:"flags"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login accepts either the username or the email address.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type EventSummary struct {
	EventID     uuid.UUID `json:"event_id"`
	EventName   string    `json:"event_name"`
	StreakCount int       `json:"streak_count"`
	IsPrivate   bool      `json:"is_private"`
	Flags       string    `json:"flags"`
}

// Details is a user profile plus the events they joined with their streaks.
type Details struct {
	User
	Events []EventSummary `json:"events"`
}
