// Package guard gates navigation on session state. Guards are pure
// predicates evaluated synchronously at navigation time; they never perform
// network calls.
package guard

import "github.com/gatorpay/gatorpay-go/internal/session"

// Route names used by the navigation table.
const (
	RouteLogin        = "login"
	RouteRegister     = "register"
	RouteDashboard    = "dashboard"
	RouteWallet       = "wallet"
	RouteTransactions = "transactions"
)

// Decision is the outcome of a guard check. When Allow is false, RedirectTo
// names the route the navigator must fall back to.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard decides whether the current session state permits navigation.
type Guard interface {
	Check() Decision
}

type requireSession struct {
	store      *session.Store
	loginRoute string
}

// RequireSession allows navigation only with an authenticated session,
// redirecting to loginRoute otherwise.
func RequireSession(store *session.Store, loginRoute string) Guard {
	return &requireSession{store: store, loginRoute: loginRoute}
}

func (g *requireSession) Check() Decision {
	if g.store.Authenticated() {
		return Decision{Allow: true}
	}
	return Decision{Allow: false, RedirectTo: g.loginRoute}
}

type requireGuest struct {
	store     *session.Store
	homeRoute string
}

// RequireGuest allows navigation only without a session, redirecting
// authenticated users to homeRoute. Login and register screens sit behind
// this guard, which is what keeps a session and a pending challenge from
// coexisting.
func RequireGuest(store *session.Store, homeRoute string) Guard {
	return &requireGuest{store: store, homeRoute: homeRoute}
}

func (g *requireGuest) Check() Decision {
	if g.store.Authenticated() {
		return Decision{Allow: false, RedirectTo: g.homeRoute}
	}
	return Decision{Allow: true}
}
