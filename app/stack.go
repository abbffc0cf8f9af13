package app

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/x"
	"github.com/iov-one/splitpay/x/alias"
	"github.com/iov-one/splitpay/x/cash"
	"github.com/iov-one/splitpay/x/payreq"
	"github.com/iov-one/splitpay/x/route"
	"github.com/iov-one/splitpay/x/settle"
	"github.com/iov-one/splitpay/x/sigs"
	"github.com/iov-one/splitpay/x/utils"
)

// Authenticator returns the authentication used by all handlers.
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Stack wires the decorators around the router. A nil policy keeps the
// settlement remainder with the payer.
func Stack(policy settle.RemainderPolicy) splitpay.Handler {
	return ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(Router(Authenticator(), policy))
}

// Router returns a router with handlers of all application messages
// registered.
func Router(auth x.Authenticator, policy settle.RemainderPolicy) *MsgRouter {
	r := NewRouter()
	ledger := cash.NewController()
	migration.RegisterRoutes(r, auth)
	sigs.RegisterRoutes(r, auth)
	cash.RegisterRoutes(r, auth, ledger)
	alias.RegisterRoutes(r, auth, ledger)
	route.RegisterRoutes(r, auth, ledger)
	settle.RegisterRoutes(r, auth, ledger, policy)
	payreq.RegisterRoutes(r, auth, ledger)
	return r
}

// QueryRouter returns a query router that understands all application
// buckets.
func QueryRouter() splitpay.QueryRouter {
	r := splitpay.NewQueryRouter()
	r.RegisterAll(
		migration.RegisterQuery,
		sigs.RegisterQuery,
		cash.RegisterQuery,
		alias.RegisterQuery,
		route.RegisterQuery,
		payreq.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis loader of all packages.
func Initializers() splitpay.Initializer {
	return splitpay.ChainInitializers(
		migration.Initializer{},
		cash.Initializer{},
		route.Initializer{},
		settle.Initializer{},
	)
}
