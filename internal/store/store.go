// Package store holds the persistence layer: narrow per-entity interfaces
// and their PostgreSQL implementations on a pgx pool. Services depend on the
// interfaces so tests can substitute in-memory fakes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SharathChampzz/Community-Streak/internal/types/event"
	"github.com/SharathChampzz/Community-Streak/internal/types/leaderboard"
	"github.com/SharathChampzz/Community-Streak/internal/types/membership"
	"github.com/SharathChampzz/Community-Streak/internal/types/user"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type MembershipStore interface {
	Get(ctx context.Context, userID, eventID uuid.UUID) (*membership.Membership, error)

	// Insert creates the membership row unless it already exists. The
	// returned flag is false when the (user, event) pair was already
	// present, which makes concurrent double joins collapse into the
	// benign "already joined" case.
	Insert(ctx context.Context, m *membership.Membership) (created bool, err error)

	// Delete removes the membership; false means there was nothing to
	// delete.
	Delete(ctx context.Context, userID, eventID uuid.UUID) (deleted bool, err error)

	// IncrementStreak applies the one conditional write of the completion
	// protocol: streak_count += 1 and modified = now, but only while
	// modified is still NULL or earlier than dayStart. A false result
	// means the guard failed, i.e. some call already completed today.
	IncrementStreak(ctx context.Context, userID, eventID uuid.UUID, now, dayStart time.Time) (streak int, updated bool, err error)

	// ResetStale zeroes every streak whose modified timestamp is NULL or
	// older than cutoff, as a single bulk statement. Returns the number
	// of rows actually changed.
	ResetStale(ctx context.Context, cutoff time.Time) (int64, error)

	TopByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]leaderboard.TopUser, error)

	// RankOf is the 1-based position of the user in the full descending
	// streak ordering for the event (ties broken by ascending user id).
	RankOf(ctx context.Context, eventID, userID uuid.UUID) (int, error)

	CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]membership.Membership, error)
}

type EventStore interface {
	Create(ctx context.Context, e *event.Event, props []event.Prop) error
	GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	List(ctx context.Context, flags string) ([]event.Event, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]event.Event, error)
	PropsFor(ctx context.Context, eventID uuid.UUID) ([]event.Prop, error)
}

type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	// GetByLogin matches either the username or the email address.
	GetByLogin(ctx context.Context, login string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

// Stores bundles the pgx-backed implementations sharing one pool.
type Stores struct {
	Memberships MembershipStore
	Events      EventStore
	Users       UserStore
}

func New(db *pgxpool.Pool) *Stores {
	return &Stores{
		Memberships: &pgMembershipStore{db: db},
		Events:      &pgEventStore{db: db},
		Users:       &pgUserStore{db: db},
	}
}
