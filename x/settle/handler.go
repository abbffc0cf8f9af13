package settle

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/split"
	"github.com/iov-one/splitpay/x"
	"github.com/iov-one/splitpay/x/alias"
	"github.com/iov-one/splitpay/x/cash"
	"github.com/iov-one/splitpay/x/route"
)

const packageName = "settle"

// Ledger moves the value of a settled payment.
type Ledger interface {
	Account(db splitpay.ReadOnlyKVStore, addr splitpay.Address) (*cash.Wallet, error)
	Transfer(db splitpay.KVStore, from, to splitpay.Address, amount uint64) error
	TokenTransfer(db splitpay.KVStore, fromSub, toSub, authority splitpay.Address, amount uint64) error
}

// RegisterRoutes registers handlers for payment processing. A nil policy
// keeps the remainder with the payer.
func RegisterRoutes(r splitpay.Registry, auth x.Authenticator, ledger Ledger, policy RemainderPolicy) {
	if policy == nil {
		policy = KeepWithPayer{}
	}
	e := engine{
		auth:    auth,
		aliases: alias.NewBucket(),
		routes:  route.NewBucket(),
		ledger:  ledger,
		policy:  policy,
	}
	r.Handle(pathPayMsg, migration.SchemaMigratingHandler(packageName, &payHandler{e}))
	r.Handle(pathPayTokenMsg, migration.SchemaMigratingHandler(packageName, &payTokenHandler{e}))
	r.Handle(pathUpdateConfigurationMsg, migration.SchemaMigratingHandler(packageName, NewConfigHandler(auth)))
}

// NewConfigHandler returns a handler of the configuration patch message.
func NewConfigHandler(auth x.Authenticator) splitpay.Handler {
	var conf Configuration
	return gconf.NewUpdateHandler(confPkg, &conf, auth, migration.CurrentAdmin)
}

type engine struct {
	auth    x.Authenticator
	aliases alias.Bucket
	routes  route.Bucket
	ledger  Ledger
	policy  RemainderPolicy
}

// plan is a payment that passed all checks and can be executed.
type plan struct {
	payment Payment
	// targets maps a recipient to its resolved transfer target.
	targets   map[string]splitpay.Address
	shares    []split.Share
	remainder uint64
}

// prepare runs every check of a payment without moving any value.
func (e engine) prepare(ctx splitpay.Context, db splitpay.ReadOnlyKVStore, p Payment, targets []splitpay.Address) (*plan, error) {
	if err := x.RequireSigner(ctx, e.auth, p.Payer, "payer"); err != nil {
		return nil, err
	}
	if floor := mustLoadConf(db).MinPayment; p.Amount < floor {
		return nil, errors.Wrapf(ErrAmountTooSmall, "%d is below %d", p.Amount, floor)
	}
	a, err := e.aliases.Lookup(db, p.Alias)
	if err != nil {
		return nil, err
	}
	if !a.Active {
		return nil, errors.Wrapf(ErrAliasInactive, "%q", p.Alias)
	}
	r, err := e.routes.Lookup(db, p.Alias)
	if err != nil {
		return nil, err
	}
	if !r.BoundTo(a) {
		return nil, errors.Wrapf(ErrRouteMismatch, "route of %q was configured for another registration", p.Alias)
	}
	if len(r.Splits) == 0 {
		return nil, errors.Wrapf(ErrMissingRecipient, "route of %q has no recipients", p.Alias)
	}
	if len(targets) > len(r.Splits) {
		return nil, errors.Wrapf(errors.ErrInput, "%d targets for %d splits", len(targets), len(r.Splits))
	}

	resolved := make(map[string]splitpay.Address, len(r.Splits))
	for i, s := range r.Splits {
		if i >= len(targets) {
			return nil, errors.Wrapf(ErrMissingRecipient, "no target for split %d", i)
		}
		t, err := e.resolve(db, s.Recipient, p.Ticker, targets[i])
		if err != nil {
			return nil, errors.Wrapf(err, "split %d", i)
		}
		resolved[string(s.Recipient)] = t
	}

	shares, remainder, err := split.Distribute(p.Amount, r.Splits)
	if err != nil {
		return nil, err
	}
	return &plan{
		payment:   p,
		targets:   resolved,
		shares:    shares,
		remainder: remainder,
	}, nil
}

// resolve recomputes the transfer target of a recipient and compares it
// with the claimed one.
func (e engine) resolve(db splitpay.ReadOnlyKVStore, recipient splitpay.Address, ticker string, claimed splitpay.Address) (splitpay.Address, error) {
	if ticker == "" {
		if !claimed.Equals(recipient) {
			return nil, errors.Wrapf(ErrAddressMismatch, "target %s is not the recipient %s", claimed, recipient)
		}
		return recipient, nil
	}
	want := cash.TokenAccountAddress(recipient, ticker)
	if !claimed.Equals(want) {
		return nil, errors.Wrapf(ErrAddressMismatch, "target %s is not the %s account %s", claimed, ticker, want)
	}
	switch _, err := e.ledger.Account(db, want); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrMissingRecipient, "no %s account %s", ticker, want)
	case err != nil:
		return nil, err
	}
	return want, nil
}

// execute moves every share and applies the remainder policy.
func (e engine) execute(ctx splitpay.Context, db splitpay.KVStore, pl *plan) (*splitpay.DeliverResult, error) {
	p := pl.payment
	for _, s := range pl.shares {
		to := pl.targets[string(s.Recipient)]
		var err error
		if p.Ticker == "" {
			err = e.ledger.Transfer(db, p.Source, to, s.Amount)
		} else {
			err = e.ledger.TokenTransfer(db, p.Source, to, p.Payer, s.Amount)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "pay %s", s.Recipient)
		}
	}
	if err := e.policy.Remainder(db, p, pl.remainder); err != nil {
		return nil, errors.Wrap(err, "remainder")
	}

	receipt := Receipt{Shares: pl.shares, Remainder: pl.remainder}
	data, err := receipt.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "receipt")
	}
	splitpay.GetLogger(ctx).
		With("alias", p.Alias, "amount", p.Amount, "ticker", p.Ticker, "remainder", pl.remainder).
		Info("payment settled")
	return &splitpay.DeliverResult{Data: data}, nil
}

type payHandler struct {
	engine
}

var _ splitpay.Handler = (*payHandler)(nil)

func (h *payHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *payHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	pl, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, db, pl)
}

func (h *payHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*plan, error) {
	var msg PayMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	p := Payment{
		Alias:  msg.Alias,
		Payer:  msg.Payer,
		Source: msg.Payer,
		Amount: msg.Amount,
	}
	return h.prepare(ctx, db, p, msg.Targets)
}

type payTokenHandler struct {
	engine
}

var _ splitpay.Handler = (*payTokenHandler)(nil)

func (h *payTokenHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *payTokenHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	pl, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, db, pl)
}

func (h *payTokenHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*plan, error) {
	var msg PayTokenMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	p := Payment{
		Alias:  msg.Alias,
		Payer:  msg.Payer,
		Source: cash.TokenAccountAddress(msg.Payer, msg.Ticker),
		Ticker: msg.Ticker,
		Amount: msg.Amount,
	}
	return h.prepare(ctx, db, p, msg.Targets)
}
