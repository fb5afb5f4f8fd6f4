package main

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ozodbek-r/neoneats/internal/auth"
	"github.com/ozodbek-r/neoneats/internal/models"
)

// registry is an in-memory user store for the stub. Passwords are stored
// bcrypt-hashed.
type registry struct {
	mu      sync.Mutex
	byEmail map[string]*account
	byID    map[string]*account
}

type account struct {
	user         models.UserRecord
	passwordHash string
}

func newRegistry() *registry {
	return &registry{
		byEmail: map[string]*account{},
		byID:    map[string]*account{},
	}
}

// create registers a new account. Returns auth.ErrEmailExists for a
// duplicate email.
func (r *registry) create(email, username, phone, password string, role models.Role) (*models.UserRecord, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, auth.ErrEmailExists
	}

	acct := &account{
		user: models.UserRecord{
			ID:       uuid.New().String(),
			Email:    email,
			Username: username,
			Phone:    phone,
			Role:     role,
		},
		passwordHash: hash,
	}
	r.byEmail[email] = acct
	r.byID[acct.user.ID] = acct

	user := acct.user
	return &user, nil
}

// authenticate verifies email and password. Returns
// auth.ErrInvalidCredentials on any mismatch.
func (r *registry) authenticate(email, password string) (*models.UserRecord, error) {
	r.mu.Lock()
	acct, ok := r.byEmail[email]
	r.mu.Unlock()

	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	if err := auth.CheckPassword(acct.passwordHash, password); err != nil {
		return nil, err
	}

	user := acct.user
	return &user, nil
}

// get looks an account up by user ID.
func (r *registry) get(id string) (*models.UserRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	user := acct.user
	return &user, true
}
