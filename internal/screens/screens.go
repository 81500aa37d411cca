// Package screens holds the user-facing controllers. Each screen owns its
// form fields, delegates protocol work to authflow and the session store,
// and reduces every failure to inline message text. No error escapes a
// screen into the navigation layer.
package screens

import (
	"context"
	"errors"

	"github.com/gatorpay/gatorpay-go/internal/api"
	"github.com/gatorpay/gatorpay-go/internal/authflow"
	"github.com/gatorpay/gatorpay-go/internal/model"
)

// Navigator moves between routes. The guard layer sits behind it.
type Navigator interface {
	Navigate(route string)
}

// AuthBackend is the API surface the login and register screens use.
type AuthBackend interface {
	authflow.Verifier
	Login(ctx context.Context, req model.LoginRequest) (model.OTPSentResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.OTPSentResponse, error)
}

// WalletBackend is the API surface the wallet and transaction screens use.
type WalletBackend interface {
	AddMoney(ctx context.Context, req model.AddMoneyRequest) (model.Wallet, error)
	Withdraw(ctx context.Context, req model.WithdrawRequest) (model.Wallet, error)
	Transactions(ctx context.Context, page, limit int) (model.TransactionPage, error)
}

// errMessage turns a protocol error into inline text. Server-reported
// rejections carry their own message; everything else gets the fallback.
func errMessage(err error, fallback string) string {
	var req *api.RequestError
	if errors.As(err, &req) && req.Message != "" {
		return req.Message
	}
	var val *authflow.ValidationError
	if errors.As(err, &val) {
		return val.Error()
	}
	return fallback
}
