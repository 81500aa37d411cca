package stub

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gatorpay/gatorpay-go/internal/model"
)

const (
	otpTTL           = 5 * time.Minute
	defaultCurrency  = "USD"
	startCreditScore = 650
)

var (
	errEmailTaken    = errors.New("email already registered")
	errUsernameTaken = errors.New("username already taken")
	errPhoneTaken    = errors.New("phone already registered")
	errUserNotFound  = errors.New("user not found")
	errBadCreds      = errors.New("invalid email or password")
	errBadCode       = errors.New("invalid verification code")
	errCodeExpired   = errors.New("verification code has expired, please request a new one")
	errWalletMissing = errors.New("wallet not found")
	errWalletFrozen  = errors.New("wallet is not active")
	errInsufficient  = errors.New("insufficient balance")
	errBadAmount     = errors.New("amount must be greater than 0")
)

type account struct {
	user         model.User
	passwordHash []byte
}

type otpCode struct {
	userID    string
	code      string
	purpose   string
	expiresAt time.Time
	used      bool
}

// state is the in-memory world of the development backend: accounts,
// wallets, transactions and outstanding OTP codes.
type state struct {
	mu           sync.Mutex
	accounts     map[string]*account // by user id
	byEmail      map[string]string   // email -> user id
	byUsername   map[string]string
	byPhone      map[string]string
	wallets      map[string]*model.Wallet // by user id
	transactions map[string][]model.Transaction
	codes        []*otpCode
	lastCode     map[string]string // user id -> last issued code, dev hook
}

func newState() *state {
	return &state{
		accounts:     make(map[string]*account),
		byEmail:      make(map[string]string),
		byUsername:   make(map[string]string),
		byPhone:      make(map[string]string),
		wallets:      make(map[string]*model.Wallet),
		transactions: make(map[string][]model.Transaction),
		lastCode:     make(map[string]string),
	}
}

func (st *state) createAccount(req model.RegisterRequest, hash []byte) (model.User, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	email := strings.ToLower(req.Email)
	if _, ok := st.byEmail[email]; ok {
		return model.User{}, errEmailTaken
	}
	if _, ok := st.byUsername[req.Username]; ok {
		return model.User{}, errUsernameTaken
	}
	if _, ok := st.byPhone[req.Phone]; ok {
		return model.User{}, errPhoneTaken
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     req.Username,
		Phone:        req.Phone,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AuthProvider: "local",
		KYCStatus:    model.KYCPending,
		CreditScore:  startCreditScore,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	st.accounts[user.ID] = &account{user: user, passwordHash: hash}
	st.byEmail[email] = user.ID
	st.byUsername[req.Username] = user.ID
	st.byPhone[req.Phone] = user.ID
	return user, nil
}

func (st *state) findByEmail(email string) (*account, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	id, ok := st.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, false
	}
	return st.accounts[id], true
}

func (st *state) findByID(id string) (*account, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	acc, ok := st.accounts[id]
	return acc, ok
}

func (st *state) markVerified(userID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if acc, ok := st.accounts[userID]; ok {
		acc.user.EmailVerified = true
		acc.user.UpdatedAt = time.Now().UTC()
	}
}

// issueOTP invalidates outstanding codes for the same user and purpose,
// then stores a fresh single-use code.
func (st *state) issueOTP(userID, purpose string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	for _, c := range st.codes {
		if c.userID == userID && c.purpose == purpose && !c.used {
			c.used = true
		}
	}
	st.codes = append(st.codes, &otpCode{
		userID:    userID,
		code:      code,
		purpose:   purpose,
		expiresAt: time.Now().Add(otpTTL),
	})
	st.lastCode[userID] = code
	return code, nil
}

// verifyOTP consumes a matching code. Expired codes are marked used so they
// can never be retried.
func (st *state) verifyOTP(userID, code, purpose string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := len(st.codes) - 1; i >= 0; i-- {
		c := st.codes[i]
		if c.userID != userID || c.code != code || c.purpose != purpose || c.used {
			continue
		}
		c.used = true
		if time.Now().After(c.expiresAt) {
			return errCodeExpired
		}
		return nil
	}
	return errBadCode
}

func (st *state) ensureWallet(userID string) *model.Wallet {
	st.mu.Lock()
	defer st.mu.Unlock()
	if w, ok := st.wallets[userID]; ok {
		return w
	}
	now := time.Now().UTC()
	w := &model.Wallet{
		ID:        uuid.NewString(),
		UserID:    userID,
		Balance:   decimal.Zero,
		Currency:  defaultCurrency,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.wallets[userID] = w
	return w
}

func (st *state) wallet(userID string) (*model.Wallet, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	w, ok := st.wallets[userID]
	return w, ok
}

// addMoney credits the wallet and records a deposit transaction.
func (st *state) addMoney(userID string, amount decimal.Decimal, description string) (model.Wallet, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	w, ok := st.wallets[userID]
	if !ok {
		return model.Wallet{}, errWalletMissing
	}
	if !w.IsActive {
		return model.Wallet{}, errWalletFrozen
	}
	w.Balance = w.Balance.Add(amount)
	w.UpdatedAt = time.Now().UTC()
	st.record(w.ID, model.TransactionTypeDeposit, amount, description)
	return *w, nil
}

// withdraw debits the wallet after a sufficiency check.
func (st *state) withdraw(userID string, amount decimal.Decimal, bankAccount string) (model.Wallet, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	w, ok := st.wallets[userID]
	if !ok {
		return model.Wallet{}, errWalletMissing
	}
	if !w.IsActive {
		return model.Wallet{}, errWalletFrozen
	}
	if w.Balance.LessThan(amount) {
		return model.Wallet{}, errInsufficient
	}
	w.Balance = w.Balance.Sub(amount)
	w.UpdatedAt = time.Now().UTC()
	st.record(w.ID, model.TransactionTypeWithdraw, amount, "Withdrawal to "+bankAccount)
	return *w, nil
}

func (st *state) record(walletID, kind string, amount decimal.Decimal, description string) {
	st.transactions[walletID] = append(st.transactions[walletID], model.Transaction{
		ID:          uuid.NewString(),
		WalletID:    walletID,
		Type:        kind,
		Amount:      amount,
		Description: description,
		Status:      model.TransactionStatusSuccess,
		CreatedAt:   time.Now().UTC(),
	})
}

// page returns one newest-first page of a wallet's history.
func (st *state) page(userID string, page, limit int) (model.TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	w, ok := st.wallets[userID]
	if !ok {
		return model.TransactionPage{}, errWalletMissing
	}

	// History is appended chronologically; reverse for newest-first.
	history := st.transactions[w.ID]
	all := make([]model.Transaction, len(history))
	for i, tx := range history {
		all[len(history)-1-i] = tx
	}

	total := int64(len(all))
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	return model.TransactionPage{
		Transactions: all[start:end],
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
	}, nil
}

func randomCode() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	num := (int(b[0])<<16 | int(b[1])<<8 | int(b[2])) % 1000000
	return fmt.Sprintf("%06d", num), nil
}

// maskEmail hides most of the local part: alice@example.com -> a***@example.com.
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:1] + "***" + email[at:]
}
