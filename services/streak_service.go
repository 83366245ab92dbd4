package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/SharathChampzz/Community-Streak/internal/clock"
	"github.com/SharathChampzz/Community-Streak/internal/store"
	"github.com/SharathChampzz/Community-Streak/internal/types/event"
	"github.com/SharathChampzz/Community-Streak/internal/types/leaderboard"
	"github.com/SharathChampzz/Community-Streak/internal/types/membership"
)

// DefaultTopX bounds the leaderboard page when the caller does not ask for a
// specific size.
const DefaultTopX = 100

// StreakService owns the membership lifecycle: join, exit, the
// one-completion-per-logical-day protocol, and the leaderboard read path.
type StreakService struct {
	memberships store.MembershipStore
	events      store.EventStore
	clock       clock.Clock
}

func NewStreakService(memberships store.MembershipStore, events store.EventStore, clk clock.Clock) *StreakService {
	return &StreakService{
		memberships: memberships,
		events:      events,
		clock:       clk,
	}
}

// Join adds the user to the event. A membership that already exists is not
// an error: the second return value reports it so the boundary can answer
// with an informational message. The insert is guarded by the
// (user_id, event_id) primary key, so two concurrent joins cannot create two
// rows; the loser simply observes "already joined".
func (s *StreakService) Join(ctx context.Context, userID, eventID uuid.UUID) (*membership.Membership, bool, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, ErrEventNotFound
		}
		return nil, false, err
	}

	m := &membership.Membership{
		UserID:      userID,
		EventID:     eventID,
		StreakCount: 0,
		CreatedAt:   s.clock.Now(),
	}

	created, err := s.memberships.Insert(ctx, m)
	if err != nil {
		return nil, false, err
	}
	if created {
		return m, false, nil
	}

	existing, err := s.memberships.Get(ctx, userID, eventID)
	if err != nil {
		return nil, false, err
	}

	return existing, true, nil
}

// Exit permanently removes the membership. Streak history is not preserved;
// re-joining starts over at zero. A missing membership is reported through
// the flag, not as an error.
func (s *StreakService) Exit(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrEventNotFound
		}
		return false, err
	}

	return s.memberships.Delete(ctx, userID, eventID)
}

// MarkCompleted records today's completion and returns the new streak count.
// A streak may grow by at most one per UTC calendar day: a second call the
// same day fails with ErrAlreadyCompletedToday, and two racing calls resolve
// through the store's conditional update so that exactly one wins.
func (s *StreakService) MarkCompleted(ctx context.Context, userID, eventID uuid.UUID) (int, error) {
	m, err := s.memberships.Get(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrMembershipNotFound
		}
		return 0, err
	}

	now := s.clock.Now()
	dayStart := s.clock.Today()

	if m.LastModified != nil && !m.LastModified.Before(dayStart) {
		return 0, ErrAlreadyCompletedToday
	}

	streak, updated, err := s.memberships.IncrementStreak(ctx, userID, eventID, now, dayStart)
	if err != nil {
		return 0, fmt.Errorf("failed to update streak: %w", err)
	}
	if !updated {
		// Lost the race to a concurrent call that completed today first.
		return 0, ErrAlreadyCompletedToday
	}

	log.Printf("Streak updated for user %s in event %s: %d", userID, eventID, streak)
	return streak, nil
}

// GetEventDetails is the leaderboard read path: event metadata, the top-X
// users ordered by streak (descending, ties broken by ascending user id),
// the requesting user's own standing over the full ordering, and the total
// member count.
func (s *StreakService) GetEventDetails(ctx context.Context, eventID uuid.UUID, topX int, userID uuid.UUID) (*leaderboard.EventDetails, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	props, err := s.events.PropsFor(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if topX <= 0 {
		topX = DefaultTopX
	}

	top, err := s.memberships.TopByEvent(ctx, eventID, topX)
	if err != nil {
		return nil, err
	}

	count, err := s.memberships.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	details := &leaderboard.EventDetails{
		EventWithProps: event.EventWithProps{Event: *e, Props: props},
		TopUsers:       top,
		UserCount:      count,
	}

	details.UserDetails, err = s.userDetails(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	return details, nil
}

func (s *StreakService) userDetails(ctx context.Context, eventID, userID uuid.UUID) (*leaderboard.UserDetails, error) {
	m, err := s.memberships.Get(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &leaderboard.UserDetails{Status: leaderboard.StatusNotMember}, nil
		}
		return nil, err
	}

	rank, err := s.memberships.RankOf(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	return &leaderboard.UserDetails{
		Status:              leaderboard.StatusMember,
		StreakCount:         m.StreakCount,
		LastModified:        m.LastModified,
		Rank:                rank,
		RequestUpdateStreak: m.LastModified == nil || !clock.SameDay(*m.LastModified, s.clock.Now()),
	}, nil
}

// GetJoinedEvents lists the events the user participates in, each with the
// user's current streak and the event's props.
func (s *StreakService) GetJoinedEvents(ctx context.Context, userID uuid.UUID) ([]event.UserEvent, error) {
	memberships, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	events := []event.UserEvent{}
	for _, m := range memberships {
		e, err := s.events.GetByID(ctx, m.EventID)
		if err != nil {
			return nil, err
		}
		props, err := s.events.PropsFor(ctx, m.EventID)
		if err != nil {
			return nil, err
		}
		events = append(events, event.UserEvent{
			EventWithProps: event.EventWithProps{Event: *e, Props: props},
			StreakCount:    m.StreakCount,
		})
	}

	return events, nil
}

// GetCreatedEvents lists the events the user created, with the creator's own
// streak in each (zero when the creator never joined).
func (s *StreakService) GetCreatedEvents(ctx context.Context, userID uuid.UUID) ([]event.UserEvent, error) {
	created, err := s.events.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	events := []event.UserEvent{}
	for _, e := range created {
		props, err := s.events.PropsFor(ctx, e.ID)
		if err != nil {
			return nil, err
		}

		streak := 0
		if m, err := s.memberships.Get(ctx, userID, e.ID); err == nil {
			streak = m.StreakCount
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		events = append(events, event.UserEvent{
			EventWithProps: event.EventWithProps{Event: e, Props: props},
			StreakCount:    streak,
		})
	}

	return events, nil
}
