// Package session implements the authentication session domain logic on top
// of a reactive state store, delegating credential checks to the remote auth
// service.
//
// Invariant: the session's user and token are set and cleared together. No
// operation, including restore from a persisted snapshot, leaves one without
// the other.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ozodbek-r/neoneats/internal/auth"
	"github.com/ozodbek-r/neoneats/internal/authapi"
	"github.com/ozodbek-r/neoneats/internal/models"
	"github.com/ozodbek-r/neoneats/internal/snapshot"
	"github.com/ozodbek-r/neoneats/internal/store"
)

// StorageKey is the snapshot key the session persists under. The source app
// spread the session over separate raw token and user entries; here both
// live in one blob so they cannot go out of sync on disk.
const StorageKey = "session-storage"

// RemoteAuth is the collaborator interface to the remote auth service.
// *authapi.Client implements it; tests substitute fakes.
type RemoteAuth interface {
	Login(ctx context.Context, creds authapi.Credentials) (*authapi.LoginResult, error)
	Register(ctx context.Context, payload authapi.RegisterPayload) (*authapi.RegisterResult, error)
	Me(ctx context.Context, token string) (*models.UserRecord, error)
}

// RegisterStatus tells the caller how a successful registration settled.
type RegisterStatus int

const (
	// RegisterSignedIn: the account was created and the session holds the
	// new identity.
	RegisterSignedIn RegisterStatus = iota
	// RegisterLoginRequired: the account was created but the service did
	// not give us a usable identity; the user must log in explicitly.
	RegisterLoginRequired
)

// Options configures a Service.
type Options struct {
	// Remote is the auth service collaborator. Required.
	Remote RemoteAuth

	// Snapshot, when set, persists the session under StorageKey.
	Snapshot snapshot.Store

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Service provides login, register, and logout over a Store[models.Session].
type Service struct {
	store  *store.Store[models.Session]
	remote RemoteAuth
	logger *slog.Logger

	// attempt guards against stale responses: an in-flight login or
	// register result is applied only if no newer attempt or logout
	// superseded it.
	mu      sync.Mutex
	attempt uint64
}

// New creates a session service, restoring any persisted session. A
// restored session that is partial (token without user or the reverse) or
// whose JWT has expired is discarded and its snapshot removed.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var storeOpts []store.Option[models.Session]
	if opts.Snapshot != nil {
		storeOpts = append(storeOpts, store.WithSnapshot[models.Session](opts.Snapshot, StorageKey))
	}
	storeOpts = append(storeOpts, store.WithLogger[models.Session](logger))

	s := &Service{
		store:  store.New("session", models.Session{}, storeOpts...),
		remote: opts.Remote,
		logger: logger,
	}

	if restored := s.store.Get(); restored.User != nil || restored.Token != "" {
		if !restored.SignedIn() {
			logger.Warn("Discarding partial persisted session")
			s.reset()
		} else if auth.TokenExpired(restored.Token, time.Now()) {
			logger.Info("Persisted session token expired, signing out")
			s.reset()
		}
	}

	return s
}

// Current returns the session as of now.
func (s *Service) Current() models.Session {
	return s.store.Get()
}

// Subscribe registers a listener for session changes.
func (s *Service) Subscribe(listener func(models.Session)) (unsubscribe func()) {
	return s.store.Subscribe(listener)
}

// Login authenticates with the remote service. On success the session holds
// {user, token} and is persisted; on any failure the session is unchanged
// and the returned error carries a human-readable message.
func (s *Service) Login(ctx context.Context, creds Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	attempt := s.begin()
	s.logger.Info("Login request", "email", creds.Email)

	result, err := s.remote.Login(ctx, authapi.Credentials{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		s.logger.Warn("Login failed", "email", creds.Email, "error", err)
		return err
	}

	if !s.commit(attempt, models.Session{User: &result.User, Token: result.Token}) {
		s.logger.Info("Discarding stale login response", "email", creds.Email)
		return nil
	}

	s.logger.Info("User logged in", "user_id", result.User.ID, "email", result.User.Email)
	return nil
}

// Register creates an account with the remote service. The service may
// return a token without a user record; in that case a follow-up who-am-I
// call completes the identity. If that follow-up fails the session stays
// signed out — the caller is told to log in explicitly rather than holding
// a token with no user behind it.
func (s *Service) Register(ctx context.Context, profile Profile) (RegisterStatus, error) {
	if err := profile.Validate(); err != nil {
		return RegisterLoginRequired, err
	}

	attempt := s.begin()
	s.logger.Info("Register request", "email", profile.Email, "role", profile.Role)

	result, err := s.remote.Register(ctx, profile.payload())
	if err != nil {
		s.logger.Warn("Registration failed", "email", profile.Email, "error", err)
		return RegisterLoginRequired, err
	}

	user := result.User
	if user == nil && result.Token != "" {
		user, err = s.remote.Me(ctx, result.Token)
		if err != nil {
			s.logger.Warn("Registered but profile fetch failed, explicit login required",
				"email", profile.Email, "error", err)
			return RegisterLoginRequired, nil
		}
	}

	if user == nil || result.Token == "" {
		s.logger.Info("Registered without token, explicit login required", "email", profile.Email)
		return RegisterLoginRequired, nil
	}

	if !s.commit(attempt, models.Session{User: user, Token: result.Token}) {
		s.logger.Info("Discarding stale register response", "email", profile.Email)
		return RegisterLoginRequired, nil
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	return RegisterSignedIn, nil
}

// Logout clears the session and removes its persisted entry. Synchronous,
// no remote call, always succeeds; any in-flight login or register result
// arriving later is discarded.
func (s *Service) Logout() {
	s.mu.Lock()
	s.attempt++
	s.mu.Unlock()

	s.reset()
	s.logger.Info("User logged out")
}

// Close disposes the underlying store.
func (s *Service) Close() {
	s.store.Close()
}

// begin opens a new attempt and returns its sequence number.
func (s *Service) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt++
	return s.attempt
}

// commit applies the session if the attempt is still the latest.
func (s *Service) commit(attempt uint64, next models.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt != s.attempt {
		return false
	}
	s.store.Update(func(models.Session) models.Session { return next })
	return true
}

// reset signs the session out in memory and on disk.
func (s *Service) reset() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.store.UpdateAndClearPersisted(ctx, func(models.Session) models.Session {
		return models.Session{}
	})
	if err != nil {
		s.logger.Warn("Failed to remove persisted session", "error", err)
	}
}
