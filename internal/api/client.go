package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gatorpay/gatorpay-go/internal/model"
)

const defaultTimeout = 15 * time.Second

// TokenSource yields the current bearer token, or "" when no session exists.
type TokenSource func() string

// Client talks to the GatorPay REST backend. It decodes the uniform
// {success, message, data} envelope and maps failures onto the error
// taxonomy in errors.go. It never retries and never inspects status codes
// beyond the rejected/unauthorized split.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	logger  *slog.Logger
}

// New builds a Client. token may be nil for an always-anonymous client.
func New(baseURL string, timeout time.Duration, token TokenSource, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
		logger:  logger,
	}
}

// Register starts registration; the backend answers with an OTP prompt.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.OTPSentResponse, error) {
	return roundTrip[model.OTPSentResponse](ctx, c, http.MethodPost, "/auth/register", req)
}

// Login starts login; the backend answers with an OTP prompt.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.OTPSentResponse, error) {
	return roundTrip[model.OTPSentResponse](ctx, c, http.MethodPost, "/auth/login", req)
}

// VerifyOTP completes the flow and returns the full session bundle.
func (c *Client) VerifyOTP(ctx context.Context, req model.VerifyOTPRequest) (model.AuthResponse, error) {
	return roundTrip[model.AuthResponse](ctx, c, http.MethodPost, "/auth/verify-otp", req)
}

// ResendOTP requests a fresh code for a pending challenge.
func (c *Client) ResendOTP(ctx context.Context, req model.ResendOTPRequest) (model.OTPSentResponse, error) {
	return roundTrip[model.OTPSentResponse](ctx, c, http.MethodPost, "/auth/resend-otp", req)
}

// Me fetches the current profile using the bearer token.
func (c *Client) Me(ctx context.Context) (model.AuthResponse, error) {
	return roundTrip[model.AuthResponse](ctx, c, http.MethodGet, "/auth/me", nil)
}

// AddMoney deposits into the caller's wallet and returns the updated wallet.
func (c *Client) AddMoney(ctx context.Context, req model.AddMoneyRequest) (model.Wallet, error) {
	return roundTrip[model.Wallet](ctx, c, http.MethodPost, "/wallet/add", req)
}

// Withdraw deducts from the caller's wallet and returns the updated wallet.
func (c *Client) Withdraw(ctx context.Context, req model.WithdrawRequest) (model.Wallet, error) {
	return roundTrip[model.Wallet](ctx, c, http.MethodPost, "/wallet/withdraw", req)
}

// Transactions fetches one page of wallet history.
func (c *Client) Transactions(ctx context.Context, page, limit int) (model.TransactionPage, error) {
	path := fmt.Sprintf("/wallet/transactions?page=%d&limit=%d", page, limit)
	return roundTrip[model.TransactionPage](ctx, c, http.MethodGet, path, nil)
}

func roundTrip[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return zero, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &TransientError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env model.Envelope[json.RawMessage]
		message := ""
		if err := json.Unmarshal(raw, &env); err == nil {
			message = env.Message
		}
		if c.logger != nil {
			c.logger.Debug("request rejected", "method", method, "path", path, "status", resp.StatusCode, "message", message)
		}
		return zero, &RequestError{Status: resp.StatusCode, Message: message}
	}

	var env model.Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, &TransientError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return env.Data, nil
}
