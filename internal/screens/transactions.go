package screens

import (
	"context"

	"github.com/gatorpay/gatorpay-go/internal/model"
	"github.com/gatorpay/gatorpay-go/internal/signal"
)

const transactionsPageSize = 10

// Transactions is the paginated wallet history controller.
type Transactions struct {
	Items      *signal.Signal[[]model.Transaction]
	Loading    *signal.Signal[bool]
	Page       *signal.Signal[int]
	TotalPages *signal.Signal[int]
	Total      *signal.Signal[int64]
	Error      *signal.Signal[string]

	backend WalletBackend
}

// NewTransactions builds the controller; call Load to fetch the first page.
func NewTransactions(backend WalletBackend) *Transactions {
	return &Transactions{
		Items:      signal.New([]model.Transaction{}),
		Loading:    signal.New(false),
		Page:       signal.New(1),
		TotalPages: signal.New(1),
		Total:      signal.New(int64(0)),
		Error:      signal.New(""),
		backend:    backend,
	}
}

// Load fetches the current page.
func (s *Transactions) Load(ctx context.Context) {
	s.Loading.Set(true)
	defer s.Loading.Set(false)

	page, err := s.backend.Transactions(ctx, s.Page.Get(), transactionsPageSize)
	if err != nil {
		s.Error.Set(errMessage(err, "Failed to load transactions"))
		return
	}
	s.Error.Set("")
	items := page.Transactions
	if items == nil {
		items = []model.Transaction{}
	}
	s.Items.Set(items)
	s.TotalPages.Set(page.TotalPages)
	s.Total.Set(page.Total)
}

// Prev moves one page back, clamped at the first page.
func (s *Transactions) Prev(ctx context.Context) {
	if s.Page.Get() <= 1 {
		return
	}
	s.Page.Update(func(p int) int { return p - 1 })
	s.Load(ctx)
}

// Next moves one page forward, clamped at the last page.
func (s *Transactions) Next(ctx context.Context) {
	if s.Page.Get() >= s.TotalPages.Get() {
		return
	}
	s.Page.Update(func(p int) int { return p + 1 })
	s.Load(ctx)
}
