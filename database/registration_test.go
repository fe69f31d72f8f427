package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptoppos/auth"
)

func registerRequest(t *testing.T, store *Store) *RegistrationRequest {
	t.Helper()
	request, err := store.Register(RegistrationInput{
		Username:     "newhire",
		Email:        "newhire@example.com",
		PasswordHash: "$2a$10$hash",
		TokenTTL:     48 * time.Hour,
	})
	require.NoError(t, err)
	return request
}

func TestRegisterCreatesPendingRequest(t *testing.T) {
	store, _ := newTestStore(t)

	request := registerRequest(t, store)
	assert.Equal(t, RegistrationPending, request.Status)
	assert.NotEmpty(t, request.Token)
	assert.Equal(t, request.CreatedAt.Add(48*time.Hour), request.ExpiresAt)

	// No account exists until the email is confirmed or an admin approves.
	assert.Empty(t, store.GetUsers())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	store, _ := newTestStore(t)

	registerRequest(t, store)
	_, err := store.Register(RegistrationInput{
		Username:     "other",
		Email:        "NewHire@example.com",
		PasswordHash: "$2a$10$hash",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = store.CreateUser(testAdmin, User{
		Username: "taken", Email: "taken@example.com", Role: auth.RoleWorker,
	})
	require.NoError(t, err)
	_, err = store.Register(RegistrationInput{
		Username:     "taken",
		Email:        "someone@example.com",
		PasswordHash: "$2a$10$hash",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestConfirmRegistrationEmail(t *testing.T) {
	store, _ := newTestStore(t)
	request := registerRequest(t, store)

	ok, msg := store.ConfirmRegistrationEmail(request.Token)
	assert.True(t, ok)
	assert.Equal(t, "Email confirmed. Your account is ready.", msg)

	users := store.GetUsers()
	require.Len(t, users, 1)
	assert.Equal(t, "newhire", users[0].Username)
	assert.Equal(t, auth.RoleWorker, users[0].Role)
	assert.True(t, users[0].IsActive)

	// The token is single use.
	ok, msg = store.ConfirmRegistrationEmail(request.Token)
	assert.False(t, ok)
	assert.Equal(t, "This confirmation link has already been used.", msg)
	assert.Len(t, store.GetUsers(), 1)
}

func TestConfirmRegistrationEmailInvalidToken(t *testing.T) {
	store, _ := newTestStore(t)
	registerRequest(t, store)

	ok, msg := store.ConfirmRegistrationEmail("not-a-real-token")
	assert.False(t, ok)
	assert.Equal(t, "Invalid confirmation token.", msg)
	assert.Empty(t, store.GetUsers())
}

func TestConfirmRegistrationEmailExpiredToken(t *testing.T) {
	store, _ := newTestStore(t)
	request := registerRequest(t, store)

	store.SetClock(func() time.Time {
		return request.ExpiresAt.Add(time.Minute)
	})
	ok, msg := store.ConfirmRegistrationEmail(request.Token)
	assert.False(t, ok)
	assert.Equal(t, "This confirmation link has expired. Please register again.", msg)
	assert.Empty(t, store.GetUsers())
}

func TestApproveRegistration(t *testing.T) {
	store, _ := newTestStore(t)
	request := registerRequest(t, store)

	_, err := store.ApproveRegistration(testManager, request.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	user, err := store.ApproveRegistration(testAdmin, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhire", user.Username)
	assert.Equal(t, auth.RoleWorker, user.Role)

	requests := store.GetRegistrationRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, RegistrationApproved, requests[0].Status)

	// A handled request cannot be approved again.
	_, err = store.ApproveRegistration(testAdmin, request.ID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestRejectRegistration(t *testing.T) {
	store, _ := newTestStore(t)
	request := registerRequest(t, store)

	require.NoError(t, store.RejectRegistration(testAdmin, request.ID))
	requests := store.GetRegistrationRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, RegistrationRejected, requests[0].Status)
	assert.Empty(t, store.GetUsers())

	err := store.RejectRegistration(testAdmin, request.ID)
	require.ErrorIs(t, err, ErrValidation)
}
