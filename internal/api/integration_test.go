package api_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/gatorpay/gatorpay-go/internal/api"
	"github.com/gatorpay/gatorpay-go/internal/logging"
	"github.com/gatorpay/gatorpay-go/internal/model"
	"github.com/gatorpay/gatorpay-go/internal/stub"
)

// startStub serves the development backend on a loopback port and returns
// the API base URL.
func startStub(t *testing.T) (*stub.Server, string) {
	t.Helper()
	srv := stub.New("integration-secret", logging.Discard())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = srv.App().Listener(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	return srv, "http://" + ln.Addr().String() + "/api"
}

// TestClientAgainstStub runs the whole protocol end to end over a real
// socket: register, verify, authenticated profile fetch, deposits,
// withdrawal and paginated history.
func TestClientAgainstStub(t *testing.T) {
	srv, baseURL := startStub(t)

	var token string
	client := api.New(baseURL, 5*time.Second, func() string { return token }, logging.Discard())
	ctx := context.Background()

	sent, err := client.Register(ctx, model.RegisterRequest{
		Email:     "bob@example.com",
		Password:  "longenough1",
		Username:  "bobby",
		Phone:     "5559876543",
		FirstName: "Bob",
		LastName:  "Gator",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sent.Email != "b***@example.com" {
		t.Fatalf("expected masked email, got %q", sent.Email)
	}

	auth, err := client.VerifyOTP(ctx, model.VerifyOTPRequest{
		UserID:  sent.UserID,
		Code:    srv.LastCode(sent.UserID),
		Purpose: model.PurposeRegister,
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if auth.Token == "" || auth.Wallet == nil {
		t.Fatalf("incomplete auth response: %+v", auth)
	}
	token = auth.Token

	me, err := client.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.User.Email != "bob@example.com" {
		t.Fatalf("unexpected profile %+v", me.User)
	}

	wallet, err := client.AddMoney(ctx, model.AddMoneyRequest{Amount: 200, Source: "Bank Account"})
	if err != nil {
		t.Fatalf("add money: %v", err)
	}
	if wallet.Balance.StringFixed(2) != "200.00" {
		t.Fatalf("unexpected balance %s", wallet.Balance)
	}

	wallet, err = client.Withdraw(ctx, model.WithdrawRequest{Amount: 75.50, BankAccount: "987654321"})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if wallet.Balance.StringFixed(2) != "124.50" {
		t.Fatalf("unexpected balance %s", wallet.Balance)
	}

	page, err := client.Transactions(ctx, 1, 10)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if page.Total != 2 || len(page.Transactions) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Transactions[0].Type != model.TransactionTypeWithdraw {
		t.Fatalf("expected newest-first ordering, got %+v", page.Transactions[0])
	}
}

// TestClientAgainstStubUnauthorized checks that a server 401 surfaces as
// ErrUnauthorized through the real transport.
func TestClientAgainstStubUnauthorized(t *testing.T) {
	_, baseURL := startStub(t)

	client := api.New(baseURL, 5*time.Second, nil, logging.Discard())
	_, err := client.Me(context.Background())
	if err == nil {
		t.Fatal("anonymous profile fetch must fail")
	}
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %T: %v", err, err)
	}
	if api.IsTransient(err) {
		t.Fatalf("server rejection must not be transient: %v", err)
	}
}
