// Package session owns the authenticated state of the client: the current
// user, the current wallet and the persisted bearer token. Every other
// component reads authentication state from here and mutates it only through
// Restore, Establish, RefreshProfile and Clear.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gatorpay/gatorpay-go/internal/model"
	"github.com/gatorpay/gatorpay-go/internal/signal"
)

// ErrSessionInvalid reports that a held token failed a profile fetch. The
// store has already cleared itself by the time this is returned.
var ErrSessionInvalid = errors.New("session invalid")

// ProfileFetcher is the slice of the API client the store depends on.
type ProfileFetcher interface {
	Me(ctx context.Context) (model.AuthResponse, error)
}

// Store is the single authoritative holder of session state.
type Store struct {
	mu    sync.Mutex
	token string

	user   *signal.Signal[*model.User]
	wallet *signal.Signal[*model.Wallet]

	tokens    *TokenFile
	api       ProfileFetcher
	logger    *slog.Logger
	onCleared []func()
}

// NewStore builds an empty store. Restore must be called to pick up a
// persisted session.
func NewStore(tokens *TokenFile, api ProfileFetcher, logger *slog.Logger) *Store {
	return &Store{
		user:   signal.New[*model.User](nil),
		wallet: signal.New[*model.Wallet](nil),
		tokens: tokens,
		api:    api,
		logger: logger,
	}
}

// Token returns the current bearer token, or "" when logged out. It is the
// token source handed to the API client.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the current user signal for subscription and reads.
func (s *Store) User() *signal.Signal[*model.User] { return s.user }

// Wallet returns the current wallet signal.
func (s *Store) Wallet() *signal.Signal[*model.Wallet] { return s.wallet }

// Authenticated reports whether a complete session is held.
func (s *Store) Authenticated() bool {
	return s.Token() != "" && s.user.Get() != nil
}

// OnCleared registers fn to run whenever the session is torn down. The
// navigator uses it to fall back to the login screen.
func (s *Store) OnCleared(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCleared = append(s.onCleared, fn)
}

// Restore loads a persisted token and validates it against the backend. With
// no persisted token it does nothing, silently. Any failure past that point
// clears all state: the store never holds a half-valid session.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.tokens.Read()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	resp, err := s.api.Me(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Info("stored session rejected, clearing", "error", err)
		}
		s.Clear()
		return fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}

	s.mu.Lock()
	s.token = resp.Token
	if resp.Token == "" {
		s.token = token
	}
	s.mu.Unlock()
	s.user.Set(&resp.User)
	s.wallet.Set(resp.Wallet)
	return nil
}

// Establish installs a session produced by a completed OTP verification.
// The token is persisted before dependents observe the state change.
func (s *Store) Establish(auth model.AuthResponse) error {
	if err := s.tokens.Write(auth.Token); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = auth.Token
	s.mu.Unlock()
	s.user.Set(&auth.User)
	s.wallet.Set(auth.Wallet)
	return nil
}

// RefreshProfile re-fetches user and wallet with the existing token. A
// failure is fatal to the session: stale state is never served.
func (s *Store) RefreshProfile(ctx context.Context) error {
	resp, err := s.api.Me(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("profile refresh failed, clearing session", "error", err)
		}
		s.Clear()
		return fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	s.user.Set(&resp.User)
	s.wallet.Set(resp.Wallet)
	return nil
}

// SetWallet replaces the current wallet, used when a wallet operation
// returns the updated record directly.
func (s *Store) SetWallet(w *model.Wallet) {
	s.wallet.Set(w)
}

// Clear logs out: the persisted token is removed, state is nulled and
// OnCleared hooks run. Clearing an already-clear store is a no-op apart
// from the hooks.
func (s *Store) Clear() {
	if err := s.tokens.Remove(); err != nil && s.logger != nil {
		s.logger.Warn("remove persisted token", "error", err)
	}
	s.mu.Lock()
	s.token = ""
	hooks := make([]func(), len(s.onCleared))
	copy(hooks, s.onCleared)
	s.mu.Unlock()
	s.user.Set(nil)
	s.wallet.Set(nil)
	for _, fn := range hooks {
		fn()
	}
}
