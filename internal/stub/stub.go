// Package stub is an in-memory development backend implementing the
// GatorPay REST contract. It lets the client binary run standalone and
// doubles as the integration fixture for the protocol client. OTP codes are
// written to the log instead of email.
package stub

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Server bundles the fiber app and the in-memory state.
type Server struct {
	app    *fiber.App
	st     *state
	secret []byte
	logger *slog.Logger
}

// New builds the development backend. secret signs bearer tokens.
func New(secret string, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "gatorpayd",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(recover.New())

	s := &Server{app: app, st: newState(), secret: []byte(secret), logger: logger}

	auth := app.Group("/api/auth")
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)
	auth.Post("/verify-otp", s.verifyOTP)
	auth.Post("/resend-otp", s.resendOTP)
	auth.Get("/me", s.requireToken, s.me)

	wallet := app.Group("/api/wallet", s.requireToken)
	wallet.Post("/add", s.addMoney)
	wallet.Post("/withdraw", s.withdraw)
	wallet.Get("/transactions", s.transactions)

	return s
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error { return s.app.ShutdownWithContext(ctx) }

// LastCode returns the most recent OTP issued for a user. Dev and test hook;
// the real product delivers codes by email.
func (s *Server) LastCode(userID string) string {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return s.st.lastCode[userID]
}

// requireToken is the bearer-token middleware guarding profile and wallet
// routes.
func (s *Server) requireToken(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return fail(c, http.StatusUnauthorized, "Authorization header required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return fail(c, http.StatusUnauthorized, "Invalid authorization format")
	}
	userID, err := validateToken(s.secret, parts[1])
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid or expired token")
	}
	c.Locals("userID", userID)
	c.Locals("token", parts[1])
	return c.Next()
}

// respond writes the uniform success envelope.
func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// fail writes the uniform error envelope.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	})
}
