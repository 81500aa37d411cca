package screens

import (
	"context"
	"errors"

	"github.com/gatorpay/gatorpay-go/internal/authflow"
	"github.com/gatorpay/gatorpay-go/internal/guard"
	"github.com/gatorpay/gatorpay-go/internal/model"
	"github.com/gatorpay/gatorpay-go/internal/session"
	"github.com/gatorpay/gatorpay-go/internal/signal"
)

// Login is the login screen controller: credentials form, then OTP step.
type Login struct {
	Email    string
	Password string
	OTPCode  string

	Loading *signal.Signal[bool]
	Error   *signal.Signal[string]
	Success *signal.Signal[string]
	OTPStep *signal.Signal[bool]

	flow    *authflow.Flow
	backend AuthBackend
	store   *session.Store
	nav     Navigator
}

// NewLogin builds the controller. Close must be called on teardown.
func NewLogin(backend AuthBackend, store *session.Store, nav Navigator) *Login {
	return &Login{
		Loading: signal.New(false),
		Error:   signal.New(""),
		Success: signal.New(""),
		OTPStep: signal.New(false),
		flow:    authflow.New(model.PurposeLogin, backend),
		backend: backend,
		store:   store,
		nav:     nav,
	}
}

// Flow exposes the underlying protocol flow, mainly for cooldown display.
func (s *Login) Flow() *authflow.Flow { return s.flow }

// MaskedEmail returns the masked destination shown on the OTP step.
func (s *Login) MaskedEmail() string {
	if ch := s.flow.Challenge(); ch != nil {
		return ch.MaskedEmail
	}
	return ""
}

// Submit sends the credentials. Validation failures never reach the network.
func (s *Login) Submit(ctx context.Context) {
	if !ValidEmail(s.Email) {
		s.Error.Set("Please enter a valid email address")
		return
	}

	s.Error.Set("")
	s.Loading.Set(true)
	defer s.Loading.Set(false)

	req := model.LoginRequest{Email: s.Email, Password: s.Password}
	resp, err := s.flow.SubmitCredentials(ctx, func(ctx context.Context) (model.OTPSentResponse, error) {
		return s.backend.Login(ctx, req)
	})
	if err != nil {
		if errors.Is(err, authflow.ErrBusy) {
			return
		}
		s.Error.Set(errMessage(err, "Login failed. Please try again."))
		return
	}
	s.OTPStep.Set(true)
	s.Success.Set("Verification code sent to " + resp.Email)
}

// VerifyCode submits the entered OTP. On success the session is established
// and navigation moves to the dashboard. On rejection the code field is
// cleared so a refused code is never resubmitted.
func (s *Login) VerifyCode(ctx context.Context) {
	s.Error.Set("")
	s.Success.Set("")
	s.Loading.Set(true)
	defer s.Loading.Set(false)

	auth, err := s.flow.SubmitCode(ctx, s.OTPCode)
	if err != nil {
		if errors.Is(err, authflow.ErrBusy) {
			return
		}
		var val *authflow.ValidationError
		if errors.As(err, &val) {
			s.Error.Set("Please enter the 6-digit code")
			return
		}
		s.Error.Set(errMessage(err, "Invalid code. Please try again."))
		s.OTPCode = ""
		return
	}

	if err := s.store.Establish(auth); err != nil {
		s.Error.Set("Could not save your session. Please try again.")
		return
	}
	s.nav.Navigate(guard.RouteDashboard)
}

// ResendCode asks for a fresh OTP; a resend inside the cooldown window is a
// silent no-op.
func (s *Login) ResendCode(ctx context.Context) {
	s.Error.Set("")
	s.Loading.Set(true)
	defer s.Loading.Set(false)

	resp, err := s.flow.Resend(ctx)
	if err != nil {
		if errors.Is(err, authflow.ErrCooldownActive) {
			return
		}
		s.Error.Set(errMessage(err, "Failed to resend code"))
		return
	}
	s.Success.Set("New code sent to " + resp.Email)
}

// Back abandons the challenge and returns to the credentials form.
func (s *Login) Back() {
	s.flow.Abandon()
	s.OTPStep.Set(false)
	s.OTPCode = ""
	s.Error.Set("")
	s.Success.Set("")
}

// Close releases the screen's resources on teardown.
func (s *Login) Close() {
	s.flow.Close()
}
