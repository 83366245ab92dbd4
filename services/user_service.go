package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/SharathChampzz/Community-Streak/internal/auth"
	"github.com/SharathChampzz/Community-Streak/internal/clock"
	"github.com/SharathChampzz/Community-Streak/internal/store"
	"github.com/SharathChampzz/Community-Streak/internal/types/user"
)

type UserService struct {
	users       store.UserStore
	memberships store.MembershipStore
	events      store.EventStore
	tokens      *auth.TokenIssuer
	clock       clock.Clock
}

func NewUserService(users store.UserStore, memberships store.MembershipStore, events store.EventStore, tokens *auth.TokenIssuer, clk clock.Clock) *UserService {
	return &UserService{
		users:       users,
		memberships: memberships,
		events:      events,
		tokens:      tokens,
		clock:       clk,
	}
}

func (s *UserService) Signup(ctx context.Context, req *user.SignupRequest) (*user.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("username, email and password are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	u := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Flags:        "regular",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Printf("User %s registered successfully", u.Username)
	return u, nil
}

func (s *UserService) Login(ctx context.Context, req *user.LoginRequest) (*user.TokenPair, error) {
	u, err := s.users.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokenPair(u.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("User %s logged in successfully", u.Username)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The user
// must still exist; deleted accounts cannot refresh their way back in.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*user.TokenPair, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.tokenPair(userID)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.users.List(ctx)
}

// GetUserDetails returns the profile plus every joined event with the user's
// streak in it.
func (s *UserService) GetUserDetails(ctx context.Context, id uuid.UUID) (*user.Details, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	memberships, err := s.memberships.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &user.Details{User: *u, Events: []user.EventSummary{}}
	for _, m := range memberships {
		e, err := s.events.GetByID(ctx, m.EventID)
		if err != nil {
			return nil, err
		}
		details.Events = append(details.Events, user.EventSummary{
			EventID:     e.ID,
			EventName:   e.Name,
			StreakCount: m.StreakCount,
			IsPrivate:   e.IsPrivate,
			Flags:       e.Flags,
		})
	}

	return details, nil
}

func (s *UserService) tokenPair(userID uuid.UUID) (*user.TokenPair, error) {
	access, err := s.tokens.AccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.RefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &user.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}
