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

// Register is the registration screen controller. Same OTP step as login,
// different form and validation rules.
type Register struct {
	Email     string
	Password  string
	Username  string
	Phone     string
	FirstName string
	LastName  string
	OTPCode   string

	Loading *signal.Signal[bool]
	Error   *signal.Signal[string]
	Success *signal.Signal[string]
	OTPStep *signal.Signal[bool]

	flow    *authflow.Flow
	backend AuthBackend
	store   *session.Store
	nav     Navigator
}

// NewRegister builds the controller. Close must be called on teardown.
func NewRegister(backend AuthBackend, store *session.Store, nav Navigator) *Register {
	return &Register{
		Loading: signal.New(false),
		Error:   signal.New(""),
		Success: signal.New(""),
		OTPStep: signal.New(false),
		flow:    authflow.New(model.PurposeRegister, backend),
		backend: backend,
		store:   store,
		nav:     nav,
	}
}

// Flow exposes the underlying protocol flow.
func (s *Register) Flow() *authflow.Flow { return s.flow }

// MaskedEmail returns the masked destination shown on the OTP step.
func (s *Register) MaskedEmail() string {
	if ch := s.flow.Challenge(); ch != nil {
		return ch.MaskedEmail
	}
	return ""
}

// Validate applies the registration rules and returns the first violation,
// or nil when the form may be submitted.
func (s *Register) Validate() *authflow.ValidationError {
	if !ValidEmail(s.Email) {
		return &authflow.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if len(s.Password) < 8 {
		return &authflow.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	if len(s.Username) < 3 {
		return &authflow.ValidationError{Field: "username", Reason: "must be at least 3 characters"}
	}
	if !ValidPhone(s.Phone) {
		return &authflow.ValidationError{Field: "phone", Reason: "must contain exactly 10 digits"}
	}
	if s.FirstName == "" {
		return &authflow.ValidationError{Field: "first_name", Reason: "must not be empty"}
	}
	if s.LastName == "" {
		return &authflow.ValidationError{Field: "last_name", Reason: "must not be empty"}
	}
	return nil
}

// Submit sends the registration form. Validation failures never reach the
// network.
func (s *Register) Submit(ctx context.Context) {
	if verr := s.Validate(); verr != nil {
		s.Error.Set(verr.Error())
		return
	}

	s.Error.Set("")
	s.Loading.Set(true)
	defer s.Loading.Set(false)

	req := model.RegisterRequest{
		Email:     s.Email,
		Password:  s.Password,
		Username:  s.Username,
		Phone:     NormalizePhone(s.Phone),
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
	resp, err := s.flow.SubmitCredentials(ctx, func(ctx context.Context) (model.OTPSentResponse, error) {
		return s.backend.Register(ctx, req)
	})
	if err != nil {
		if errors.Is(err, authflow.ErrBusy) {
			return
		}
		s.Error.Set(errMessage(err, "Registration failed. Please try again."))
		return
	}
	s.OTPStep.Set(true)
	s.Success.Set("Verification code sent to " + resp.Email)
}

// VerifyCode submits the entered OTP; see Login.VerifyCode.
func (s *Register) VerifyCode(ctx context.Context) {
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

// ResendCode asks for a fresh OTP, a no-op during the cooldown window.
func (s *Register) ResendCode(ctx context.Context) {
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

// Back abandons the challenge and returns to the form.
func (s *Register) Back() {
	s.flow.Abandon()
	s.OTPStep.Set(false)
	s.OTPCode = ""
	s.Error.Set("")
	s.Success.Set("")
}

// Close releases the screen's resources on teardown.
func (s *Register) Close() {
	s.flow.Close()
}
