package stub

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatorpay/gatorpay-go/internal/model"
)

func (s *Server) register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if req.Email == "" || len(req.Password) < 8 || len(req.Username) < 3 ||
		req.Phone == "" || req.FirstName == "" || req.LastName == "" {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to process password")
	}

	user, err := s.st.createAccount(req, hash)
	if err != nil {
		return fail(c, http.StatusConflict, err.Error())
	}

	if err := s.sendOTP(user.ID, user.Email, model.PurposeRegister); err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, "Verification code sent to your email", model.OTPSentResponse{
		UserID:  user.ID,
		Email:   maskEmail(user.Email),
		Purpose: model.PurposeRegister,
	})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
	}

	acc, ok := s.st.findByEmail(req.Email)
	if !ok {
		return fail(c, http.StatusUnauthorized, errBadCreds.Error())
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, errBadCreds.Error())
	}

	if err := s.sendOTP(acc.user.ID, acc.user.Email, model.PurposeLogin); err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "Verification code sent to your email", model.OTPSentResponse{
		UserID:  acc.user.ID,
		Email:   maskEmail(acc.user.Email),
		Purpose: model.PurposeLogin,
	})
}

func (s *Server) verifyOTP(c *fiber.Ctx) error {
	var req model.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if req.UserID == "" || len(req.Code) != 6 || req.Purpose == "" {
		return fail(c, http.StatusBadRequest, "Invalid input")
	}

	acc, ok := s.st.findByID(req.UserID)
	if !ok {
		return fail(c, http.StatusUnauthorized, errBadCode.Error())
	}
	if err := s.st.verifyOTP(req.UserID, req.Code, req.Purpose); err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}

	if req.Purpose == model.PurposeRegister {
		s.st.markVerified(req.UserID)
	}
	wallet := s.st.ensureWallet(req.UserID)

	token, err := issueToken(s.secret, req.UserID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to issue token")
	}

	acc, _ = s.st.findByID(req.UserID)
	return respond(c, http.StatusOK, "Verification successful", model.AuthResponse{
		Token:  token,
		User:   acc.user,
		Wallet: wallet,
	})
}

func (s *Server) resendOTP(c *fiber.Ctx) error {
	var req model.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
	}

	acc, ok := s.st.findByID(req.UserID)
	if !ok {
		return fail(c, http.StatusBadRequest, errUserNotFound.Error())
	}

	if err := s.sendOTP(acc.user.ID, acc.user.Email, req.Purpose); err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "Verification code resent", model.OTPSentResponse{
		UserID:  acc.user.ID,
		Email:   maskEmail(acc.user.Email),
		Purpose: req.Purpose,
	})
}

func (s *Server) me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	token, _ := c.Locals("token").(string)

	acc, ok := s.st.findByID(userID)
	if !ok {
		return fail(c, http.StatusNotFound, errUserNotFound.Error())
	}
	wallet, _ := s.st.wallet(userID)

	return respond(c, http.StatusOK, "User retrieved successfully", model.AuthResponse{
		Token:  token,
		User:   acc.user,
		Wallet: wallet,
	})
}

// sendOTP issues a code and "delivers" it through the log.
func (s *Server) sendOTP(userID, email, purpose string) error {
	if purpose != model.PurposeLogin && purpose != model.PurposeRegister {
		return errors.New("invalid purpose")
	}
	code, err := s.st.issueOTP(userID, purpose)
	if err != nil {
		return errors.New("failed to generate verification code")
	}
	if s.logger != nil {
		s.logger.Info("otp issued", "email", email, "purpose", purpose, "code", code)
	}
	return nil
}
