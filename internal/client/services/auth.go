// Package services contains application services for the pengaduan client.
// This file defines the session service: sign-in/sign-out lifecycle, the
// automatic profile load that follows every new token, and the forced
// sign-out on an expired token.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/pengaduan/internal/client/client"
	"github.com/dmitrijs2005/pengaduan/internal/client/forms"
	"github.com/dmitrijs2005/pengaduan/internal/client/models"
	"github.com/dmitrijs2005/pengaduan/internal/client/storage"
	"github.com/dmitrijs2005/pengaduan/internal/common"
	"github.com/dmitrijs2005/pengaduan/internal/logging"
)

// Status is the lifecycle state of a Session.
type Status int

const (
	// Restoring means the stored token has not been read yet.
	Restoring Status = iota
	SignedOut
	SignedIn
)

func (s Status) String() string {
	switch s {
	case Restoring:
		return "restoring"
	case SignedIn:
		return "signed in"
	default:
		return "signed out"
	}
}

// AuthService defines the session operations used by the CLI.
//
// Contract:
//   - SignIn: durably store token and user; storage failures are returned.
//   - SignOut: best-effort server logout, then always clear the local session.
//   - Login/Register/VerifyEmail/ChangePassword: validated API round trips.
//   - Redirects: signalled whenever the user must sign in again.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Status() Status
	Token() string
	User() *models.User
	SignIn(ctx context.Context, token string, user models.User) error
	SignOut(ctx context.Context) error
	UpdateUser(ctx context.Context, user models.User) error
	Login(ctx context.Context, form forms.SignIn) (*models.User, error)
	Register(ctx context.Context, form forms.SignUp) error
	VerifyEmail(ctx context.Context) (bool, error)
	ChangePassword(ctx context.Context, form forms.PasswordChange) error
	Redirects() <-chan struct{}
	Ready(ctx context.Context) error
	Close()
}

// Session is the AuthService backed by the "session" and "user" keys of a
// Store.
type Session struct {
	api client.Client
	log logging.Logger

	token *storage.State
	user  *storage.State

	ctx       context.Context
	cancel    context.CancelFunc
	watcher   chan struct{}
	loads     sync.WaitGroup
	redirects chan struct{}

	// mu orders token changes against profile-load results.
	mu sync.Mutex
	// clears counts session clears so the watcher reloads a token that was
	// cleared and signed in again between two change signals.
	clears atomic.Uint64
}

var _ AuthService = (*Session)(nil)

// NewSession restores the stored session in the background. Whenever a
// non-empty token becomes current the profile is fetched with it.
func NewSession(ctx context.Context, api client.Client, store *storage.Store, log logging.Logger) *Session {
	// the states outlive s.ctx so Close can still flush their writes
	token := storage.NewState(ctx, store, common.SessionKey)
	user := storage.NewState(ctx, store, common.UserKey)

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		api:       api,
		log:       log.With("component", "session"),
		token:     token,
		user:      user,
		ctx:       ctx,
		cancel:    cancel,
		watcher:   make(chan struct{}),
		redirects: make(chan struct{}, 1),
	}

	changes, _ := s.token.Changes()
	go s.watch(changes)
	return s
}

func (s *Session) watch(changes <-chan struct{}) {
	defer close(s.watcher)

	var seen tokenSeen
	for {
		if loading, tok := s.token.Snapshot(); !loading {
			if t := deref(tok); seen.changed(t, s.clears.Load()) && t != "" {
				s.loads.Add(1)
				go s.loadProfile(t)
			}
		}

		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// tokenSeen is the watcher's view of the last token it acted on.
type tokenSeen struct {
	token  string
	clears uint64
}

// changed records token as current and reports whether it differs from
// the previous one. A clear in between always counts as a change.
func (ts *tokenSeen) changed(token string, clears uint64) bool {
	if token == ts.token && clears == ts.clears {
		return false
	}
	ts.token, ts.clears = token, clears
	return true
}

// loadProfile fetches the profile owned by token. Results for a token that
// is no longer current are dropped.
func (s *Session) loadProfile(token string) {
	defer s.loads.Done()

	u, err := s.api.User(client.WithToken(s.ctx, token))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Token() != token {
		s.log.Debug(s.ctx, "profile for replaced token discarded")
		return
	}

	switch {
	case errors.Is(err, client.ErrUnauthorized):
		s.log.Info(s.ctx, "session expired, signing out")
		s.clearLocked()
		s.redirect()
	case err != nil:
		if !errors.Is(err, context.Canceled) {
			s.log.Error(s.ctx, "error fetching user info", "error", err)
		}
	default:
		if err := s.setUserLocked(*u); err != nil {
			s.log.Error(s.ctx, "failed to store user", "error", err)
		}
	}
}

func (s *Session) redirect() {
	select {
	case s.redirects <- struct{}{}:
	default:
	}
}

// Redirects is signalled (coalesced) each time the session was cleared
// and the user has to sign in again.
func (s *Session) Redirects() <-chan struct{} {
	return s.redirects
}

func (s *Session) Status() Status {
	loading, tok := s.token.Snapshot()
	switch {
	case loading:
		return Restoring
	case deref(tok) == "":
		return SignedOut
	default:
		return SignedIn
	}
}

func (s *Session) Token() string {
	return deref(s.token.Value())
}

// User decodes the stored profile. Undecodable data is logged and reported
// as no user.
func (s *Session) User() *models.User {
	raw := s.user.Value()
	if raw == nil {
		return nil
	}
	var u models.User
	if err := models.Decode(*raw, &u); err != nil {
		s.log.Error(s.ctx, "failed to parse user data", "error", err)
		return nil
	}
	return &u
}

// SignIn stores token, then user. Both writes are awaited; a storage
// failure is returned and leaves the session signed out.
func (s *Session) SignIn(ctx context.Context, token string, user models.User) error {
	enc, err := models.Encode(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.token.Commit(ctx, &token); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := s.user.Commit(ctx, &enc); err != nil {
		if rerr := s.token.Commit(ctx, nil); rerr != nil {
			s.log.Error(ctx, "failed to roll back session", "error", rerr)
			s.token.SetValue(nil)
		}
		s.clears.Add(1)
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// UpdateUser replaces the stored profile without a network round trip.
func (s *Session) UpdateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setUserLocked(user)
}

func (s *Session) setUserLocked(user models.User) error {
	enc, err := models.Encode(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	s.user.SetValue(&enc)
	return nil
}

// SignOut asks the backend to revoke the token and then clears the local
// session whatever the outcome. The logout error, if any, is returned for
// display.
func (s *Session) SignOut(ctx context.Context) error {
	var logoutErr error
	if tok := s.Token(); tok != "" {
		logoutErr = s.api.Logout(client.WithToken(ctx, tok))
		if logoutErr != nil {
			s.log.Warn(ctx, "server logout failed", "error", logoutErr)
		}
	}

	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	s.redirect()

	if logoutErr != nil {
		return fmt.Errorf("logout: %w", logoutErr)
	}
	return nil
}

func (s *Session) clearLocked() {
	s.token.SetValue(nil)
	s.user.SetValue(nil)
	s.clears.Add(1)
}

// Login authenticates with email and password and signs in.
func (s *Session) Login(ctx context.Context, form forms.SignIn) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	resp, err := s.api.Login(ctx, form.Email, form.Password)
	if err != nil {
		return nil, err
	}
	if err := s.SignIn(ctx, resp.Token, resp.User); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account. The backend then mails a verification link;
// the new user still has to sign in.
func (s *Session) Register(ctx context.Context, form forms.SignUp) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return s.api.Register(ctx, client.RegisterRequest{
		Name:                 form.Name,
		Email:                form.Email,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
	})
}

// VerifyEmail requests a verification mail. It returns true when the
// backend reports the address as already verified, in which case the
// stored profile is updated.
func (s *Session) VerifyEmail(ctx context.Context) (bool, error) {
	resp, err := s.api.SendVerificationNotification(ctx)
	if err != nil {
		return false, err
	}
	u, ok := resp.User()
	if !ok {
		return false, nil
	}
	if err := s.UpdateUser(ctx, *u); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) ChangePassword(ctx context.Context, form forms.PasswordChange) error {
	if err := form.Validate(); err != nil {
		return err
	}
	return s.api.UpdatePassword(ctx, client.UpdatePasswordRequest{
		CurrentPassword:         form.Current,
		NewPassword:             form.New,
		NewPasswordConfirmation: form.Confirm,
	})
}

// Ready waits until the stored session has been read.
func (s *Session) Ready(ctx context.Context) error {
	if err := s.token.Ready(ctx); err != nil {
		return err
	}
	return s.user.Ready(ctx)
}

// Flush waits for pending session writes.
func (s *Session) Flush(ctx context.Context) error {
	if err := s.token.Flush(ctx); err != nil {
		return err
	}
	return s.user.Flush(ctx)
}

// Close stops profile loading and flushes pending writes.
func (s *Session) Close() {
	s.cancel()
	<-s.watcher
	s.loads.Wait()
	s.token.Close()
	s.user.Close()
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
