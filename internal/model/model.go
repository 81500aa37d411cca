package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OTP purpose values carried through the two-step auth flow.
const (
	PurposeLogin    = "login"
	PurposeRegister = "register"
)

// Transaction type values.
const (
	TransactionTypeDeposit  = "deposit"
	TransactionTypeWithdraw = "withdraw"
)

// Transaction status values.
const (
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// KYC status values.
const (
	KYCPending  = "pending"
	KYCVerified = "verified"
	KYCRejected = "rejected"
)

// User is the profile returned by the backend. The client never mutates it
// directly; a fresh copy arrives with every profile fetch.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Phone         string    `json:"phone"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	AvatarURL     string    `json:"avatar_url"`
	AuthProvider  string    `json:"auth_provider"`
	EmailVerified bool      `json:"email_verified"`
	KYCStatus     string    `json:"kyc_status"`
	CreditScore   int       `json:"credit_score"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Wallet holds the stored-value account for a user. Balance is an exact
// decimal serialized as a string; the client never computes it locally.
type Wallet struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Transaction is a single wallet ledger entry.
type Transaction struct {
	ID          string          `json:"id"`
	WalletID    string          `json:"wallet_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Envelope is the uniform response wrapper used by every backend endpoint.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest is the payload for POST /auth/verify-otp.
type VerifyOTPRequest struct {
	UserID  string `json:"user_id"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

// ResendOTPRequest is the payload for POST /auth/resend-otp.
type ResendOTPRequest struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
}

// AddMoneyRequest is the payload for POST /wallet/add.
type AddMoneyRequest struct {
	Amount      float64 `json:"amount"`
	Source      string  `json:"source"`
	Description string  `json:"description"`
}

// WithdrawRequest is the payload for POST /wallet/withdraw.
type WithdrawRequest struct {
	Amount      float64 `json:"amount"`
	BankAccount string  `json:"bank_account"`
}

// AuthResponse is returned once OTP verification completes, and by the
// profile endpoint. It is the full session bundle.
type AuthResponse struct {
	Token  string  `json:"token"`
	User   User    `json:"user"`
	Wallet *Wallet `json:"wallet"`
}

// OTPSentResponse acknowledges step one of the auth flow. Email is masked.
type OTPSentResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

// TransactionPage is one page of wallet history.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalPages   int           `json:"total_pages"`
}
