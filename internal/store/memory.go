package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SharathChampzz/Community-Streak/internal/types/event"
	"github.com/SharathChampzz/Community-Streak/internal/types/leaderboard"
	"github.com/SharathChampzz/Community-Streak/internal/types/membership"
	"github.com/SharathChampzz/Community-Streak/internal/types/user"
)

// NewMemory returns stores backed by process memory with the same semantics
// as the PostgreSQL implementations, including the conditional streak
// increment. Used by tests and local experiments; one mutex stands in for
// row-level isolation.
func NewMemory() *Stores {
	d := &memData{
		users:       map[uuid.UUID]*user.User{},
		events:      map[uuid.UUID]*event.Event{},
		props:       map[uuid.UUID][]event.Prop{},
		memberships: map[memKey]*membership.Membership{},
	}
	return &Stores{
		Memberships: &memMembershipStore{d},
		Events:      &memEventStore{d},
		Users:       &memUserStore{d},
	}
}

type memKey struct {
	userID  uuid.UUID
	eventID uuid.UUID
}

type memData struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*user.User
	events      map[uuid.UUID]*event.Event
	props       map[uuid.UUID][]event.Prop
	memberships map[memKey]*membership.Membership
}

type memMembershipStore struct{ d *memData }

func (s *memMembershipStore) Get(_ context.Context, userID, eventID uuid.UUID) (*membership.Membership, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	m, ok := s.d.memberships[memKey{userID, eventID}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memMembershipStore) Insert(_ context.Context, m *membership.Membership) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	key := memKey{m.UserID, m.EventID}
	if _, ok := s.d.memberships[key]; ok {
		return false, nil
	}
	cp := *m
	s.d.memberships[key] = &cp
	return true, nil
}

func (s *memMembershipStore) Delete(_ context.Context, userID, eventID uuid.UUID) (bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	key := memKey{userID, eventID}
	if _, ok := s.d.memberships[key]; !ok {
		return false, nil
	}
	delete(s.d.memberships, key)
	return true, nil
}

func (s *memMembershipStore) IncrementStreak(_ context.Context, userID, eventID uuid.UUID, now, dayStart time.Time) (int, bool, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	m, ok := s.d.memberships[memKey{userID, eventID}]
	if !ok {
		return 0, false, nil
	}
	if m.LastModified != nil && !m.LastModified.Before(dayStart) {
		return 0, false, nil
	}
	m.StreakCount++
	t := now
	m.LastModified = &t
	return m.StreakCount, true, nil
}

func (s *memMembershipStore) ResetStale(_ context.Context, cutoff time.Time) (int64, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	var rows int64
	for _, m := range s.d.memberships {
		if m.StreakCount == 0 {
			continue
		}
		if m.LastModified == nil || m.LastModified.Before(cutoff) {
			m.StreakCount = 0
			rows++
		}
	}
	return rows, nil
}

func (s *memMembershipStore) TopByEvent(_ context.Context, eventID uuid.UUID, limit int) ([]leaderboard.TopUser, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	ranked := s.rankedLocked(eventID)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := []leaderboard.TopUser{}
	for _, m := range ranked {
		username := ""
		if u, ok := s.d.users[m.UserID]; ok {
			username = u.Username
		}
		top = append(top, leaderboard.TopUser{UserID: m.UserID, Username: username, StreakCount: m.StreakCount})
	}
	return top, nil
}

func (s *memMembershipStore) RankOf(_ context.Context, eventID, userID uuid.UUID) (int, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	for i, m := range s.rankedLocked(eventID) {
		if m.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, ErrNotFound
}

func (s *memMembershipStore) CountByEvent(_ context.Context, eventID uuid.UUID) (int, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	count := 0
	for _, m := range s.d.memberships {
		if m.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (s *memMembershipStore) ListByUser(_ context.Context, userID uuid.UUID) ([]membership.Membership, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	var memberships []membership.Membership
	for _, m := range s.d.memberships {
		if m.UserID == userID {
			memberships = append(memberships, *m)
		}
	}
	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].CreatedAt.Before(memberships[j].CreatedAt)
	})
	return memberships, nil
}

// rankedLocked orders an event's memberships by streak descending, ties by
// ascending user id, mirroring the SQL ordering.
func (s *memMembershipStore) rankedLocked(eventID uuid.UUID) []*membership.Membership {
	var ranked []*membership.Membership
	for _, m := range s.d.memberships {
		if m.EventID == eventID {
			ranked = append(ranked, m)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].StreakCount != ranked[j].StreakCount {
			return ranked[i].StreakCount > ranked[j].StreakCount
		}
		return ranked[i].UserID.String() < ranked[j].UserID.String()
	})
	return ranked
}

type memEventStore struct{ d *memData }

func (s *memEventStore) Create(_ context.Context, e *event.Event, props []event.Prop) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	cp := *e
	s.d.events[e.ID] = &cp
	s.d.props[e.ID] = append([]event.Prop{}, props...)
	return nil
}

func (s *memEventStore) GetByID(_ context.Context, id uuid.UUID) (*event.Event, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	e, ok := s.d.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memEventStore) List(_ context.Context, flags string) ([]event.Event, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	var events []event.Event
	for _, e := range s.d.events {
		if flags == "" || e.Flags == flags {
			events = append(events, *e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return events, nil
}

func (s *memEventStore) ListByCreator(_ context.Context, userID uuid.UUID) ([]event.Event, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	var events []event.Event
	for _, e := range s.d.events {
		if e.CreatedBy == userID {
			events = append(events, *e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return events, nil
}

func (s *memEventStore) PropsFor(_ context.Context, eventID uuid.UUID) ([]event.Prop, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	return append([]event.Prop{}, s.d.props[eventID]...), nil
}

type memUserStore struct{ d *memData }

func (s *memUserStore) Create(_ context.Context, u *user.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	for _, existing := range s.d.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	cp := *u
	s.d.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	u, ok := s.d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetByLogin(_ context.Context, login string) (*user.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	for _, u := range s.d.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUserStore) List(_ context.Context) ([]user.User, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	var users []user.User
	for _, u := range s.d.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}
