package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gatorpay/gatorpay-go/internal/logging"
	"github.com/gatorpay/gatorpay-go/internal/model"
)

func TestLoginDecodesEnvelope(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody model.LoginRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Verification code sent to your email",
			"data":    model.OTPSentResponse{UserID: "u1", Email: "a***@b.com", Purpose: "login"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, logging.Discard())
	resp, err := client.Login(context.Background(), model.LoginRequest{Email: "a@b.com", Password: "longenough1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if gotPath != "/auth/login" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAuth != "" {
		t.Fatalf("anonymous call must not send a bearer token, got %q", gotAuth)
	}
	if gotBody.Email != "a@b.com" {
		t.Fatalf("unexpected body %+v", gotBody)
	}
	if resp.UserID != "u1" || resp.Email != "a***@b.com" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestMeSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			t.Errorf("missing bearer header, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data":    model.AuthResponse{Token: "t1", User: model.User{ID: "u1"}},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, func() string { return "t1" }, logging.Discard())
	resp, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if resp.User.ID != "u1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestRejectionCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "invalid email or password",
			"data":    nil,
		})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, logging.Discard())
	_, err := client.Login(context.Background(), model.LoginRequest{Email: "a@b.com", Password: "nope"})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != "invalid email or password" {
		t.Fatalf("unexpected message %q", reqErr.Message)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("401 must match ErrUnauthorized")
	}
	if IsTransient(err) {
		t.Fatal("a server rejection is not transient")
	}
}

func TestNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	client := New(srv.URL, time.Second, nil, logging.Discard())
	_, err := client.Me(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTransient(err) {
		t.Fatalf("connection failure must be transient, got %v", err)
	}
}

func TestMalformedResponseIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, logging.Discard())
	_, err := client.Me(context.Background())
	if !IsTransient(err) {
		t.Fatalf("undecodable success body must be transient, got %v", err)
	}
}

func TestTransactionsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.RawQuery; got != "page=2&limit=10" {
			t.Errorf("unexpected query %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data":    model.TransactionPage{Page: 2, Limit: 10, Total: 0, TotalPages: 0},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, func() string { return "t1" }, logging.Discard())
	page, err := client.Transactions(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if page.Page != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
}
