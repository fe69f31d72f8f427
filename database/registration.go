package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"laptoppos/auth"
)

// RegistrationInput is a public signup request. The password arrives
// already hashed; the store never sees plaintext credentials.
type RegistrationInput struct {
	Username     string
	Email        string
	PasswordHash string
	TokenTTL     time.Duration
}

// Register files a pending registration request and returns it, token
// included, so the caller can mail the confirmation link. No actor check:
// signup is the one mutation open to anonymous callers.
func (s *Store) Register(input RegistrationInput) (*RegistrationRequest, error) {
	if strings.TrimSpace(input.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if strings.TrimSpace(input.Email) == "" || !strings.Contains(input.Email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if input.TokenTTL <= 0 {
		input.TokenTTL = 48 * time.Hour
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTakenLocked(input.Username, input.Email, 0) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, input.Email)
	}
	for _, r := range s.registrations {
		if r.Status == RegistrationPending && strings.EqualFold(r.Email, input.Email) {
			return nil, fmt.Errorf("%w: %s already has a pending request", ErrDuplicateEmail, input.Email)
		}
	}

	request := &RegistrationRequest{
		ID:           nextID(s.registrations),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Token:        uuid.NewString(),
		Status:       RegistrationPending,
		ExpiresAt:    s.now().Add(input.TokenTTL),
		CreatedAt:    s.now(),
	}
	s.registrations[request.ID] = request
	if err := s.commit(func() { delete(s.registrations, request.ID) }); err != nil {
		return nil, err
	}
	created := *request
	return &created, nil
}

// ConfirmRegistrationEmail consumes a confirmation token. On a valid
// unused token the request is promoted to an active worker account; any
// other token fails with a human-readable message. A token never works
// twice.
func (s *Store) ConfirmRegistrationEmail(token string) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var request *RegistrationRequest
	for _, r := range s.registrations {
		if r.Token == token {
			request = r
			break
		}
	}
	if request == nil {
		return false, "Invalid confirmation token."
	}
	if request.Status != RegistrationPending {
		return false, "This confirmation link has already been used."
	}
	if s.now().After(request.ExpiresAt) {
		return false, "This confirmation link has expired. Please register again."
	}

	previousStatus := request.Status
	request.Status = RegistrationConfirmed
	user := &User{
		ID:           nextID(s.users),
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: request.PasswordHash,
		Role:         auth.RoleWorker,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	s.users[user.ID] = user
	if err := s.commit(func() {
		request.Status = previousStatus
		delete(s.users, user.ID)
	}); err != nil {
		return false, "Could not save the confirmation. Please try again."
	}
	return true, "Email confirmed. Your account is ready."
}

// ApproveRegistration lets an admin promote a pending request without
// email confirmation.
func (s *Store) ApproveRegistration(actor Actor, id uint) (*User, error) {
	if err := requirePermission(actor, auth.PermApproveSignups); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.registrations[id]
	if !ok {
		return nil, fmt.Errorf("%w: registration request %d", ErrNotFound, id)
	}
	if request.Status != RegistrationPending {
		return nil, fmt.Errorf("%w: request %d is %s", ErrValidation, id, request.Status)
	}

	previousStatus := request.Status
	request.Status = RegistrationApproved
	user := &User{
		ID:           nextID(s.users),
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: request.PasswordHash,
		Role:         auth.RoleWorker,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	s.users[user.ID] = user
	entry := s.appendAuditLocked(actor, "approve_registration",
		fmt.Sprintf("approved registration %d for %s", id, request.Username))
	if err := s.commit(func() {
		request.Status = previousStatus
		delete(s.users, user.ID)
		delete(s.auditLogs, entry.ID)
	}); err != nil {
		return nil, err
	}
	created := *user
	return &created, nil
}

// RejectRegistration marks a pending request rejected.
func (s *Store) RejectRegistration(actor Actor, id uint) error {
	if err := requirePermission(actor, auth.PermApproveSignups); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.registrations[id]
	if !ok {
		return fmt.Errorf("%w: registration request %d", ErrNotFound, id)
	}
	if request.Status != RegistrationPending {
		return fmt.Errorf("%w: request %d is %s", ErrValidation, id, request.Status)
	}
	previousStatus := request.Status
	request.Status = RegistrationRejected
	entry := s.appendAuditLocked(actor, "reject_registration",
		fmt.Sprintf("rejected registration %d for %s", id, request.Username))
	return s.commit(func() {
		request.Status = previousStatus
		delete(s.auditLogs, entry.ID)
	})
}

// GetRegistrationRequests returns every request in insertion order.
func (s *Store) GetRegistrationRequests() []RegistrationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RegistrationRequest, 0, len(s.registrations))
	for _, id := range sortedIDs(s.registrations) {
		out = append(out, *s.registrations[id])
	}
	return out
}
