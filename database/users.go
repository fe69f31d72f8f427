package database

import (
	"fmt"
	"log"
	"strings"

	"laptoppos/auth"
	"laptoppos/utils"
)

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func validateUser(u *User) error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if !auth.ValidRole(string(u.Role)) {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, u.Role)
	}
	return nil
}

// usernameTakenLocked reports whether the username or email is already in
// use by another user. Caller must hold s.mu.
func (s *Store) usernameTakenLocked(username, email string, exclude uint) bool {
	for _, u := range s.users {
		if u.ID == exclude {
			continue
		}
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// CreateUser adds a new account. Admin only.
func (s *Store) CreateUser(actor Actor, user User) (*User, error) {
	if err := requirePermission(actor, auth.PermManageUsers); err != nil {
		return nil, err
	}
	if err := validateUser(&user); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTakenLocked(user.Username, user.Email, 0) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, user.Email)
	}
	user.ID = nextID(s.users)
	user.CreatedAt = s.now()
	s.users[user.ID] = &user
	entry := s.appendAuditLocked(actor, "create_user",
		fmt.Sprintf("created user %s with role %s", user.Username, user.Role))
	if err := s.commit(func() {
		delete(s.users, user.ID)
		delete(s.auditLogs, entry.ID)
	}); err != nil {
		return nil, err
	}
	created := user
	return &created, nil
}

// UpdateUser merges the non-nil fields of the update into the account.
func (s *Store) UpdateUser(actor Actor, id uint, update UserUpdate) (*User, error) {
	if err := requirePermission(actor, auth.PermManageUsers); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	previous := *user

	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Role != nil {
		user.Role = auth.Role(*update.Role)
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}

	if err := validateUser(user); err != nil {
		*user = previous
		return nil, err
	}
	if s.usernameTakenLocked(user.Username, user.Email, id) {
		email := user.Email
		*user = previous
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}
	entry := s.appendAuditLocked(actor, "update_user",
		fmt.Sprintf("updated user %s", user.Username))
	if err := s.commit(func() {
		*user = previous
		delete(s.auditLogs, entry.ID)
	}); err != nil {
		return nil, err
	}
	updated := *user
	return &updated, nil
}

// ChangePassword updates the caller's own password hash after the
// controller has verified the current password.
func (s *Store) ChangePassword(actor Actor, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[actor.UserID]
	if !ok {
		return fmt.Errorf("%w: user %d", ErrNotFound, actor.UserID)
	}
	previous := user.PasswordHash
	user.PasswordHash = newHash
	return s.commit(func() { user.PasswordHash = previous })
}

// GetUsers returns all accounts in insertion order, hashes included;
// callers serving HTTP responses must blank the hashes first.
func (s *Store) GetUsers() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, 0, len(s.users))
	for _, id := range sortedIDs(s.users) {
		out = append(out, *s.users[id])
	}
	return out
}

// GetUser returns one account by id.
func (s *Store) GetUser(id uint) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	copy := *user
	return &copy, nil
}

// FindUserByUsername looks an account up by username or email,
// case-insensitively.
func (s *Store) FindUserByUsername(username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range sortedIDs(s.users) {
		u := s.users[id]
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, username) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
}

// SeedDefaultAdmin creates a default admin if no users exist yet.
func (s *Store) SeedDefaultAdmin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) > 0 {
		return
	}
	hash, err := utils.HashPassword("admin123")
	if err != nil {
		log.Printf("Failed to hash default admin password: %v", err)
		return
	}
	admin := &User{
		ID:           nextID(s.users),
		Username:     "admin",
		Email:        "admin@laptoppos.local",
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	s.users[admin.ID] = admin
	if err := s.commit(func() { delete(s.users, admin.ID) }); err != nil {
		log.Printf("Failed to persist default admin: %v", err)
		return
	}
	log.Println("Default admin user created (admin / admin123). Change the password.")
}
