package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gatorpay/gatorpay-go/internal/api"
	"github.com/gatorpay/gatorpay-go/internal/guard"
	"github.com/gatorpay/gatorpay-go/internal/screens"
	"github.com/gatorpay/gatorpay-go/internal/session"
)

const routeQuit = "quit"

// app is the terminal navigator: it owns the route table, evaluates guards
// on every transition and drives one screen at a time.
type app struct {
	client *api.Client
	store  *session.Store
	in     *bufio.Scanner
	out    io.Writer

	guards map[string]guard.Guard
	route  string
}

func newApp(client *api.Client, store *session.Store, in io.Reader, out io.Writer) *app {
	a := &app{
		client: client,
		store:  store,
		in:     bufio.NewScanner(in),
		out:    out,
	}
	a.guards = map[string]guard.Guard{
		guard.RouteLogin:        guard.RequireGuest(store, guard.RouteDashboard),
		guard.RouteRegister:     guard.RequireGuest(store, guard.RouteDashboard),
		guard.RouteDashboard:    guard.RequireSession(store, guard.RouteLogin),
		guard.RouteWallet:       guard.RequireSession(store, guard.RouteLogin),
		guard.RouteTransactions: guard.RequireSession(store, guard.RouteLogin),
	}
	a.route = guard.RouteDashboard
	store.OnCleared(func() { a.route = guard.RouteLogin })
	return a
}

// Navigate applies the target route's guard and moves there, or to the
// guard's redirect.
func (a *app) Navigate(route string) {
	if route == routeQuit {
		a.route = routeQuit
		return
	}
	if g, ok := a.guards[route]; ok {
		if d := g.Check(); !d.Allow {
			a.route = d.RedirectTo
			return
		}
	}
	a.route = route
}

func (a *app) run(ctx context.Context) error {
	// Entering through the guard normalizes the start route for both the
	// restored-session and fresh-start cases.
	a.Navigate(a.route)
	for a.route != routeQuit {
		if ctx.Err() != nil {
			return nil
		}
		switch a.route {
		case guard.RouteLogin:
			a.loginScreen(ctx)
		case guard.RouteRegister:
			a.registerScreen(ctx)
		case guard.RouteDashboard:
			a.dashboardScreen(ctx)
		case guard.RouteWallet:
			a.walletScreen(ctx)
		case guard.RouteTransactions:
			a.transactionsScreen(ctx)
		default:
			a.route = routeQuit
		}
	}
	return nil
}

func (a *app) loginScreen(ctx context.Context) {
	scr := screens.NewLogin(a.client, a.store, a)
	defer scr.Close()

	fmt.Fprintln(a.out, "\n== Sign in ==  (type 'register' to create an account, 'quit' to exit)")
	email, ok := a.prompt("Email: ")
	if !ok {
		a.route = routeQuit
		return
	}
	switch email {
	case "register":
		a.Navigate(guard.RouteRegister)
		return
	case routeQuit:
		a.route = routeQuit
		return
	}
	password, ok := a.prompt("Password: ")
	if !ok {
		a.route = routeQuit
		return
	}

	scr.Email = email
	scr.Password = password
	scr.Submit(ctx)
	a.flash(scr.Error.Get(), scr.Success.Get())

	if scr.OTPStep.Get() {
		a.otpLoop(ctx, &loginOTP{scr})
	}
}

func (a *app) registerScreen(ctx context.Context) {
	scr := screens.NewRegister(a.client, a.store, a)
	defer scr.Close()

	fmt.Fprintln(a.out, "\n== Create account ==  (type 'login' at any prompt to go back)")
	fields := []struct {
		label  string
		target *string
	}{
		{"Email: ", &scr.Email},
		{"Password: ", &scr.Password},
		{"Username: ", &scr.Username},
		{"Phone: ", &scr.Phone},
		{"First name: ", &scr.FirstName},
		{"Last name: ", &scr.LastName},
	}
	for _, f := range fields {
		value, ok := a.prompt(f.label)
		if !ok {
			a.route = routeQuit
			return
		}
		if value == "login" {
			a.Navigate(guard.RouteLogin)
			return
		}
		*f.target = value
	}

	scr.Submit(ctx)
	a.flash(scr.Error.Get(), scr.Success.Get())

	if scr.OTPStep.Get() {
		a.otpLoop(ctx, &registerOTP{scr})
	}
}

// otpScreen is the slice of login/register shared by the OTP prompt loop.
type otpScreen interface {
	Verify(ctx context.Context, code string)
	Resend(ctx context.Context)
	Back()
	Done() bool
	Messages() (errMsg, successMsg string)
	Destination() string
}

type loginOTP struct{ s *screens.Login }

func (o *loginOTP) Verify(ctx context.Context, code string) { o.s.OTPCode = code; o.s.VerifyCode(ctx) }
func (o *loginOTP) Resend(ctx context.Context)              { o.s.ResendCode(ctx) }
func (o *loginOTP) Back()                                   { o.s.Back() }
func (o *loginOTP) Done() bool                              { return !o.s.OTPStep.Get() }
func (o *loginOTP) Messages() (string, string)              { return o.s.Error.Get(), o.s.Success.Get() }
func (o *loginOTP) Destination() string                     { return o.s.MaskedEmail() }

type registerOTP struct{ s *screens.Register }

func (o *registerOTP) Verify(ctx context.Context, code string) {
	o.s.OTPCode = code
	o.s.VerifyCode(ctx)
}
func (o *registerOTP) Resend(ctx context.Context) { o.s.ResendCode(ctx) }
func (o *registerOTP) Back()                      { o.s.Back() }
func (o *registerOTP) Done() bool                 { return !o.s.OTPStep.Get() }
func (o *registerOTP) Messages() (string, string) { return o.s.Error.Get(), o.s.Success.Get() }
func (o *registerOTP) Destination() string        { return o.s.MaskedEmail() }

func (a *app) otpLoop(ctx context.Context, scr otpScreen) {
	for {
		fmt.Fprintf(a.out, "A verification code was sent to %s\n", scr.Destination())
		input, ok := a.prompt("Code (or 'r' to resend, 'b' to go back): ")
		if !ok {
			a.route = routeQuit
			return
		}
		switch input {
		case "r":
			scr.Resend(ctx)
		case "b":
			scr.Back()
			return
		default:
			scr.Verify(ctx, input)
		}
		a.flash(scr.Messages())
		if a.store.Authenticated() || scr.Done() {
			return
		}
	}
}

func (a *app) dashboardScreen(ctx context.Context) {
	user := a.store.User().Get()
	wallet := a.store.Wallet().Get()
	if user == nil {
		a.Navigate(guard.RouteLogin)
		return
	}

	fmt.Fprintf(a.out, "\n== Dashboard ==\nWelcome back, %s %s\n", user.FirstName, user.LastName)
	if wallet != nil {
		fmt.Fprintf(a.out, "Balance: %s %s\n", wallet.Currency, wallet.Balance.StringFixed(2))
	}
	choice, ok := a.prompt("[w]allet  [t]ransactions  [r]efresh  [l]ogout  [q]uit: ")
	if !ok {
		a.route = routeQuit
		return
	}
	switch choice {
	case "w":
		a.Navigate(guard.RouteWallet)
	case "t":
		a.Navigate(guard.RouteTransactions)
	case "r":
		if err := a.store.RefreshProfile(ctx); err != nil {
			fmt.Fprintln(a.out, "Session expired, please sign in again.")
		}
	case "l":
		a.store.Clear()
	case "q":
		a.route = routeQuit
	}
}

func (a *app) walletScreen(ctx context.Context) {
	scr := screens.NewWallet(a.client, a.store)

	fmt.Fprintf(a.out, "\n== Wallet ==\nBalance: %s\n", scr.FormattedBalance())
	choice, ok := a.prompt("[a]dd money  [w]ithdraw  [b]ack: ")
	if !ok {
		a.route = routeQuit
		return
	}
	switch choice {
	case "a":
		amount, ok := a.promptAmount("Amount: ")
		if !ok {
			return
		}
		source, _ := a.prompt("Source [Bank Account]: ")
		if source != "" {
			scr.AddSource = source
		}
		scr.AddAmount = amount
		scr.AddMoney(ctx)
		a.flash(scr.AddError.Get(), scr.AddSuccess.Get())
	case "w":
		amount, ok := a.promptAmount("Amount: ")
		if !ok {
			return
		}
		account, _ := a.prompt("Bank account: ")
		scr.WithdrawAmount = amount
		scr.WithdrawBankAccount = account
		scr.Withdraw(ctx)
		a.flash(scr.WithdrawError.Get(), scr.WithdrawSuccess.Get())
	case "b":
		a.Navigate(guard.RouteDashboard)
	}
}

func (a *app) transactionsScreen(ctx context.Context) {
	scr := screens.NewTransactions(a.client)
	scr.Load(ctx)

	for {
		if msg := scr.Error.Get(); msg != "" {
			fmt.Fprintln(a.out, msg)
			a.Navigate(guard.RouteDashboard)
			return
		}
		items := scr.Items.Get()
		fmt.Fprintf(a.out, "\n== Transactions ==  page %d/%d (%d total)\n",
			scr.Page.Get(), scr.TotalPages.Get(), scr.Total.Get())
		if len(items) == 0 {
			fmt.Fprintln(a.out, "No transactions yet.")
		}
		for _, tx := range items {
			fmt.Fprintf(a.out, "%s  %-8s  %10s  %s\n",
				tx.CreatedAt.Format("2006-01-02 15:04"), tx.Type, tx.Amount.StringFixed(2), tx.Description)
		}
		choice, ok := a.prompt("[n]ext  [p]rev  [b]ack: ")
		if !ok {
			a.route = routeQuit
			return
		}
		switch choice {
		case "n":
			scr.Next(ctx)
		case "p":
			scr.Prev(ctx)
		case "b":
			a.Navigate(guard.RouteDashboard)
			return
		}
	}
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *app) promptAmount(label string) (float64, bool) {
	raw, ok := a.prompt(label)
	if !ok {
		return 0, false
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Not a number.")
		return 0, false
	}
	return amount, true
}

func (a *app) flash(errMsg, successMsg string) {
	if errMsg != "" {
		fmt.Fprintln(a.out, errMsg)
	}
	if successMsg != "" {
		fmt.Fprintln(a.out, successMsg)
	}
}
