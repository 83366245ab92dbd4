package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SharathChampzz/Community-Streak/internal/types/user"
)

func signupAndLogin(t *testing.T, f *apiFixture, username string) user.TokenPair {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/v1/users/signup", user.SignupRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "s3cret-password",
	}, uuid.Nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/users/login", user.LoginRequest{
		Login:    username,
		Password: "s3cret-password",
	}, uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens user.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	return tokens
}

func TestSignupLoginAndMe(t *testing.T) {
	f := newAPIFixture(t)
	tokens := signupAndLogin(t, f, "alice")

	assert.Equal(t, "bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	userID, err := f.tokens.ParseAccess(tokens.AccessToken)
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/v1/users/me", nil, userID)
	require.Equal(t, http.StatusOK, rec.Code)

	var me user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAPIFixture(t)
	signupAndLogin(t, f, "alice")

	rec := f.do(t, http.MethodPost, "/api/v1/users/signup", user.SignupRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "another-password",
	}, uuid.Nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, rec)["error"])
}

func TestLoginByEmail(t *testing.T) {
	f := newAPIFixture(t)
	signupAndLogin(t, f, "alice")

	rec := f.do(t, http.MethodPost, "/api/v1/users/login", user.LoginRequest{
		Login:    "alice@example.com",
		Password: "s3cret-password",
	}, uuid.Nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAPIFixture(t)
	signupAndLogin(t, f, "alice")

	cases := []struct {
		name string
		req  user.LoginRequest
	}{
		{"wrong password", user.LoginRequest{Login: "alice", Password: "wrong"}},
		{"unknown user", user.LoginRequest{Login: "nobody", Password: "s3cret-password"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/v1/users/login", tc.req, uuid.Nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	f := newAPIFixture(t)
	tokens := signupAndLogin(t, f, "alice")

	rec := f.do(t, http.MethodPost, "/api/v1/users/token/refresh", user.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	}, uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed user.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newAPIFixture(t)
	tokens := signupAndLogin(t, f, "alice")

	rec := f.do(t, http.MethodPost, "/api/v1/users/token/refresh", user.RefreshRequest{
		RefreshToken: tokens.AccessToken,
	}, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserDetails(t *testing.T) {
	f := newAPIFixture(t)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	eventID := f.addEvent(t, "daily-run", alice)

	f.do(t, http.MethodPost, "/api/v1/events/"+eventID.String()+"/join", nil, bob)
	f.do(t, http.MethodPost, "/api/v1/events/"+eventID.String()+"/mark-completed", nil, bob)

	rec := f.do(t, http.MethodGet, "/api/v1/users/"+bob.String(), nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	var details user.Details
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	assert.Equal(t, "bob", details.Username)
	require.Len(t, details.Events, 1)
	assert.Equal(t, eventID, details.Events[0].EventID)
	assert.Equal(t, 1, details.Events[0].StreakCount)
}

func TestGetUserDetailsUnknownUser(t *testing.T) {
	f := newAPIFixture(t)
	alice := f.addUser(t, "alice")

	rec := f.do(t, http.MethodGet, "/api/v1/users/"+uuid.NewString(), nil, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUserDetailsInvalidID(t *testing.T) {
	f := newAPIFixture(t)
	alice := f.addUser(t, "alice")

	rec := f.do(t, http.MethodGet, "/api/v1/users/not-a-uuid", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUsers(t *testing.T) {
	f := newAPIFixture(t)
	alice := f.addUser(t, "alice")
	f.addUser(t, "bob")

	rec := f.do(t, http.MethodGet, "/api/v1/users", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}
