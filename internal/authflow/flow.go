// Package authflow drives the two-step credential→OTP authentication
// protocol. One Flow instance backs one screen: it tracks the pending
// challenge, enforces the resend cooldown and refuses duplicate concurrent
// submissions. The flow never touches the session store; on success it hands
// the session bundle back to the caller.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gatorpay/gatorpay-go/internal/model"
	"github.com/gatorpay/gatorpay-go/internal/signal"
)

// State is the flow's position in the protocol.
type State int

const (
	// StateIdle: no credentials submitted, or the challenge was abandoned.
	StateIdle State = iota
	// StateChallengeIssued: credentials accepted, an OTP is outstanding.
	StateChallengeIssued
	// StateVerified: terminal success; the session bundle was returned.
	StateVerified
)

// ResendCooldown is the wait imposed between successful resend requests.
const ResendCooldown = 30 * time.Second

var (
	// ErrBusy rejects a duplicate submission while the same operation is
	// still outstanding.
	ErrBusy = errors.New("request already in progress")
	// ErrCooldownActive rejects a resend before the cooldown elapses. No
	// network call is made.
	ErrCooldownActive = errors.New("resend cooldown active")
	// ErrNoChallenge rejects code submission or resend outside of
	// StateChallengeIssued.
	ErrNoChallenge = errors.New("no pending challenge")
	// ErrNotIdle rejects credential submission while a challenge is pending.
	ErrNotIdle = errors.New("challenge already issued")
)

// ValidationError is a local input rejection; the backend was not contacted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PendingChallenge tracks an issued-but-unverified OTP. It never survives a
// process restart; a reload mid-challenge restarts from credentials.
type PendingChallenge struct {
	UserID      string
	MaskedEmail string
	Purpose     string
}

// Verifier is the slice of the API client the flow needs for step two.
type Verifier interface {
	VerifyOTP(ctx context.Context, req model.VerifyOTPRequest) (model.AuthResponse, error)
	ResendOTP(ctx context.Context, req model.ResendOTPRequest) (model.OTPSentResponse, error)
}

// SendCredentials performs the purpose-specific step-one call. The login and
// register screens each bind their own request type here.
type SendCredentials func(ctx context.Context) (model.OTPSentResponse, error)

// Flow is the protocol state machine for one screen instance.
type Flow struct {
	purpose string
	backend Verifier

	mu        sync.Mutex
	state     State
	challenge *PendingChallenge

	credsInFlight bool
	codeInFlight  bool

	cooldown *signal.Signal[int]
	timerGen int
	timer    *time.Timer
	tick     time.Duration
}

// New creates a flow for the given purpose (model.PurposeLogin or
// model.PurposeRegister).
func New(purpose string, backend Verifier) *Flow {
	return &Flow{
		purpose:  purpose,
		backend:  backend,
		cooldown: signal.New(0),
		tick:     time.Second,
	}
}

// State returns the current protocol state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Challenge returns the pending challenge, or nil outside of
// StateChallengeIssued.
func (f *Flow) Challenge() *PendingChallenge {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.challenge
}

// Cooldown exposes the remaining resend cooldown in seconds as an
// observable, for countdown display.
func (f *Flow) Cooldown() *signal.Signal[int] { return f.cooldown }

// SubmitCredentials runs step one. The caller has already validated the
// payload shape; send binds the purpose-specific request. On success the
// flow records the challenge and returns the masked destination.
func (f *Flow) SubmitCredentials(ctx context.Context, send SendCredentials) (model.OTPSentResponse, error) {
	f.mu.Lock()
	if f.credsInFlight {
		f.mu.Unlock()
		return model.OTPSentResponse{}, ErrBusy
	}
	if f.state != StateIdle {
		f.mu.Unlock()
		return model.OTPSentResponse{}, ErrNotIdle
	}
	f.credsInFlight = true
	f.mu.Unlock()

	resp, err := send(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.credsInFlight = false
	if err != nil {
		return model.OTPSentResponse{}, err
	}
	f.state = StateChallengeIssued
	f.challenge = &PendingChallenge{UserID: resp.UserID, MaskedEmail: resp.Email, Purpose: f.purpose}
	return resp, nil
}

// SubmitCode runs step two. A code that is not exactly six digits is
// rejected locally with no network call. On backend rejection the flow stays
// in StateChallengeIssued; the caller must drop the rejected code rather
// than resubmit it.
func (f *Flow) SubmitCode(ctx context.Context, code string) (model.AuthResponse, error) {
	if !validCode(code) {
		return model.AuthResponse{}, &ValidationError{Field: "code", Reason: "must be exactly 6 digits"}
	}

	f.mu.Lock()
	if f.codeInFlight {
		f.mu.Unlock()
		return model.AuthResponse{}, ErrBusy
	}
	if f.state != StateChallengeIssued || f.challenge == nil {
		f.mu.Unlock()
		return model.AuthResponse{}, ErrNoChallenge
	}
	req := model.VerifyOTPRequest{UserID: f.challenge.UserID, Code: code, Purpose: f.purpose}
	f.codeInFlight = true
	f.mu.Unlock()

	resp, err := f.backend.VerifyOTP(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.codeInFlight = false
	if err != nil {
		return model.AuthResponse{}, err
	}
	f.state = StateVerified
	f.challenge = nil
	f.stopCooldownLocked()
	return resp, nil
}

// Resend requests a fresh code. While the cooldown runs it is a local no-op
// returning ErrCooldownActive. On success the cooldown restarts at 30
// seconds; on failure the cooldown is left untouched.
func (f *Flow) Resend(ctx context.Context) (model.OTPSentResponse, error) {
	f.mu.Lock()
	if f.state != StateChallengeIssued || f.challenge == nil {
		f.mu.Unlock()
		return model.OTPSentResponse{}, ErrNoChallenge
	}
	if f.cooldown.Get() > 0 {
		f.mu.Unlock()
		return model.OTPSentResponse{}, ErrCooldownActive
	}
	req := model.ResendOTPRequest{UserID: f.challenge.UserID, Purpose: f.purpose}
	f.mu.Unlock()

	resp, err := f.backend.ResendOTP(ctx, req)
	if err != nil {
		return model.OTPSentResponse{}, err
	}

	f.mu.Lock()
	f.startCooldownLocked(int(ResendCooldown / time.Second))
	f.mu.Unlock()
	return resp, nil
}

// Abandon returns to StateIdle, dropping the challenge and cancelling the
// cooldown timer. Used by the "back to form" action.
func (f *Flow) Abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateIdle
	f.challenge = nil
	f.stopCooldownLocked()
}

// Close releases the flow on screen teardown. The cooldown timer must never
// fire into a discarded screen.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCooldownLocked()
}

// SetTickInterval shortens the countdown tick. Test hook.
func (f *Flow) SetTickInterval(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tick = d
}

func (f *Flow) startCooldownLocked(seconds int) {
	f.stopCooldownLocked()
	gen := f.timerGen
	f.cooldown.Set(seconds)
	f.timer = time.AfterFunc(f.tick, func() { f.countdown(gen) })
}

func (f *Flow) countdown(gen int) {
	f.mu.Lock()
	if gen != f.timerGen {
		// Stale tick from a cancelled timer.
		f.mu.Unlock()
		return
	}
	remaining := f.cooldown.Get() - 1
	if remaining > 0 {
		f.timer = time.AfterFunc(f.tick, func() { f.countdown(gen) })
	} else {
		remaining = 0
		f.timer = nil
	}
	f.mu.Unlock()
	f.cooldown.Set(remaining)
}

func (f *Flow) stopCooldownLocked() {
	f.timerGen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if f.cooldown.Get() != 0 {
		f.cooldown.Set(0)
	}
}

func validCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
