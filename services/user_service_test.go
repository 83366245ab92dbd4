package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SharathChampzz/Community-Streak/internal/auth"
	"github.com/SharathChampzz/Community-Streak/internal/types/user"
)

func newUserFixture(t *testing.T) (*UserService, *streakFixture) {
	t.Helper()
	f := newStreakFixture(t)
	tokens := auth.NewTokenIssuer("test-access-secret", "test-refresh-secret")
	svc := NewUserService(f.stores.Users, f.stores.Memberships, f.stores.Events, tokens, f.clock)
	return svc, f
}

func TestSignup(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, &user.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "regular", u.Flags)
	assert.NotEqual(t, "s3cret", u.PasswordHash, "password must be stored hashed")
	assert.True(t, auth.CheckPassword("s3cret", u.PasswordHash))
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &user.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &user.SignupRequest{Username: "alice2", Email: "alice@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupRequiresFields(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Signup(context.Background(), &user.SignupRequest{Username: "alice"})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &user.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	// Either username or email works as the login.
	for _, login := range []string{"alice", "alice@example.com"} {
		pair, err := svc.Login(ctx, &user.LoginRequest{Login: login, Password: "s3cret"})
		require.NoError(t, err)
		assert.Equal(t, "bearer", pair.TokenType)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &user.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &user.LoginRequest{Login: "alice", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Login(context.Background(), &user.LoginRequest{Login: "ghost", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &user.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	pair, err := svc.Login(ctx, &user.LoginRequest{Login: "alice", Password: "s3cret"})
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &user.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	pair, err := svc.Login(ctx, &user.LoginRequest{Login: "alice", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetUserDetails(t *testing.T) {
	svc, f := newUserFixture(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, &user.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "x"})
	require.NoError(t, err)
	eventID := f.addEvent(t, "daily-run", u.ID)

	_, _, err = f.svc.Join(ctx, u.ID, eventID)
	require.NoError(t, err)
	_, err = f.svc.MarkCompleted(ctx, u.ID, eventID)
	require.NoError(t, err)

	details, err := svc.GetUserDetails(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, details.Events, 1)
	assert.Equal(t, eventID, details.Events[0].EventID)
	assert.Equal(t, "daily-run", details.Events[0].EventName)
	assert.Equal(t, 1, details.Events[0].StreakCount)
}

func TestGetUserDetailsUnknownUser(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.GetUserDetails(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
