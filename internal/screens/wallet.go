package screens

import (
	"context"
	"fmt"

	"github.com/gatorpay/gatorpay-go/internal/model"
	"github.com/gatorpay/gatorpay-go/internal/session"
	"github.com/gatorpay/gatorpay-go/internal/signal"
)

// Wallet is the balance screen controller with add-money and withdraw forms.
type Wallet struct {
	AddAmount      float64
	AddSource      string
	AddDescription string

	WithdrawAmount      float64
	WithdrawBankAccount string

	AddError        *signal.Signal[string]
	AddSuccess      *signal.Signal[string]
	WithdrawError   *signal.Signal[string]
	WithdrawSuccess *signal.Signal[string]
	Loading         *signal.Signal[bool]

	backend WalletBackend
	store   *session.Store
}

// NewWallet builds the controller.
func NewWallet(backend WalletBackend, store *session.Store) *Wallet {
	return &Wallet{
		AddSource:       "Bank Account",
		AddError:        signal.New(""),
		AddSuccess:      signal.New(""),
		WithdrawError:   signal.New(""),
		WithdrawSuccess: signal.New(""),
		Loading:         signal.New(false),
		backend:         backend,
		store:           store,
	}
}

// FormattedBalance renders the current balance for display. The balance is
// whatever the backend last reported; nothing is computed locally.
func (s *Wallet) FormattedBalance() string {
	w := s.store.Wallet().Get()
	if w == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", w.Currency, w.Balance.StringFixed(2))
}

// ClearMessages resets the inline form messages.
func (s *Wallet) ClearMessages() {
	s.AddError.Set("")
	s.AddSuccess.Set("")
	s.WithdrawError.Set("")
	s.WithdrawSuccess.Set("")
}

// AddMoney deposits into the wallet. The updated wallet from the response
// replaces the stored one.
func (s *Wallet) AddMoney(ctx context.Context) {
	if s.AddAmount <= 0 {
		s.AddError.Set("Amount must be greater than 0")
		return
	}

	s.ClearMessages()
	s.Loading.Set(true)
	defer s.Loading.Set(false)

	description := s.AddDescription
	if description == "" {
		description = "Deposit from " + s.AddSource
	}
	wallet, err := s.backend.AddMoney(ctx, model.AddMoneyRequest{
		Amount:      s.AddAmount,
		Source:      s.AddSource,
		Description: description,
	})
	if err != nil {
		s.AddError.Set(errMessage(err, "Failed to add money"))
		return
	}
	s.store.SetWallet(&wallet)
	s.AddSuccess.Set(fmt.Sprintf("%.2f added successfully!", s.AddAmount))
	s.AddAmount = 0
	s.AddDescription = ""
}

// Withdraw deducts from the wallet.
func (s *Wallet) Withdraw(ctx context.Context) {
	if s.WithdrawAmount <= 0 {
		s.WithdrawError.Set("Amount must be greater than 0")
		return
	}
	if s.WithdrawBankAccount == "" {
		s.WithdrawError.Set("Bank account is required")
		return
	}

	s.ClearMessages()
	s.Loading.Set(true)
	defer s.Loading.Set(false)

	wallet, err := s.backend.Withdraw(ctx, model.WithdrawRequest{
		Amount:      s.WithdrawAmount,
		BankAccount: s.WithdrawBankAccount,
	})
	if err != nil {
		s.WithdrawError.Set(errMessage(err, "Failed to withdraw"))
		return
	}
	s.store.SetWallet(&wallet)
	s.WithdrawSuccess.Set(fmt.Sprintf("%.2f withdrawn successfully!", s.WithdrawAmount))
	s.WithdrawAmount = 0
	s.WithdrawBankAccount = ""
}

// Refresh re-fetches user and wallet through the session store. A refresh
// failure clears the session; the store's OnCleared hook handles the
// redirect, so there is nothing to surface here.
func (s *Wallet) Refresh(ctx context.Context) {
	_ = s.store.RefreshProfile(ctx)
}
