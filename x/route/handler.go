package route

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/split"
	"github.com/iov-one/splitpay/x"
	"github.com/iov-one/splitpay/x/alias"
)

const packageName = "route"

// RegisterRoutes registers handlers for route message processing.
func RegisterRoutes(r splitpay.Registry, auth x.Authenticator, ledger alias.Ledger) {
	h := routeHandler{auth: auth, aliases: alias.NewBucket(), routes: NewBucket(), ledger: ledger}
	r.Handle(pathInitMsg, migration.SchemaMigratingHandler(packageName, &initHandler{h}))
	r.Handle(pathSetMsg, migration.SchemaMigratingHandler(packageName, &setHandler{h}))
	r.Handle(pathDeleteMsg, migration.SchemaMigratingHandler(packageName, &deleteHandler{h}))
	r.Handle(pathMigrateStaleMsg, migration.SchemaMigratingHandler(packageName, &migrateStaleHandler{h}))
	r.Handle(pathUpdateConfigurationMsg, migration.SchemaMigratingHandler(packageName, NewConfigHandler(auth)))
}

// NewConfigHandler returns a handler of the configuration patch message.
func NewConfigHandler(auth x.Authenticator) splitpay.Handler {
	var conf Configuration
	return gconf.NewUpdateHandler(confPkg, &conf, auth, migration.CurrentAdmin)
}

// routeHandler holds what every route handler needs.
type routeHandler struct {
	auth    x.Authenticator
	aliases alias.Bucket
	routes  Bucket
	ledger  alias.Ledger
}

// owned returns the alias record if the transaction is signed by its owner.
func (h routeHandler) owned(ctx splitpay.Context, db splitpay.ReadOnlyKVStore, name string) (*alias.AliasRecord, error) {
	rec, err := h.aliases.Lookup(db, name)
	if err != nil {
		return nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, rec.Owner, "alias owner"); err != nil {
		return nil, err
	}
	return rec, nil
}

// existing returns the current route of the alias or nil if there is none.
func (h routeHandler) existing(db splitpay.ReadOnlyKVStore, name string) (*RouteRecord, error) {
	r, err := h.routes.Lookup(db, name)
	switch {
	case err == nil:
		return r, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// write stores the route and locks the deposit if it is new.
func (h routeHandler) write(db splitpay.KVStore, owner splitpay.Address, r *RouteRecord, created bool) error {
	if err := h.routes.Save(db, r); err != nil {
		return errors.Wrap(err, "save")
	}
	if created {
		if _, err := h.ledger.Deposit(db, owner, Address(r.Alias)); err != nil {
			return err
		}
	}
	return nil
}

type initHandler struct {
	routeHandler
}

var _ splitpay.Handler = (*initHandler)(nil)

func (h *initHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *initHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	a, prev, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	r := &RouteRecord{
		Metadata: &splitpay.Metadata{Schema: 1},
		Alias:    a.Alias,
		AliasRef: a.Identity(),
	}
	if err := h.write(db, a.Owner, r, prev == nil); err != nil {
		return nil, err
	}
	splitpay.GetLogger(ctx).With("alias", a.Alias).Info("route initialized")
	return &splitpay.DeliverResult{Data: Address(a.Alias)}, nil
}

func (h *initHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*alias.AliasRecord, *RouteRecord, error) {
	var msg InitMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	a, err := h.owned(ctx, db, msg.Alias)
	if err != nil {
		return nil, nil, err
	}
	prev, err := h.existing(db, msg.Alias)
	if err != nil {
		return nil, nil, err
	}
	// A route left by a previous registration of the alias is replaced.
	if prev != nil && prev.BoundTo(a) {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "route of %q", msg.Alias)
	}
	return a, prev, nil
}

type setHandler struct {
	routeHandler
}

var _ splitpay.Handler = (*setHandler)(nil)

func (h *setHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *setHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	a, prev, splits, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	r := &RouteRecord{
		Metadata: &splitpay.Metadata{Schema: 1},
		Alias:    a.Alias,
		AliasRef: a.Identity(),
		Splits:   splits,
	}
	if err := h.write(db, a.Owner, r, prev == nil); err != nil {
		return nil, err
	}
	splitpay.GetLogger(ctx).With("alias", a.Alias, "splits", len(splits)).Info("route set")
	return &splitpay.DeliverResult{Data: Address(a.Alias)}, nil
}

func (h *setHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*alias.AliasRecord, *RouteRecord, []split.Split, error) {
	var msg SetMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	a, err := h.owned(ctx, db, msg.Alias)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := ValidateSplits(msg.Alias, msg.Splits, int(mustLoadConf(db).MaxSplits)); err != nil {
		return nil, nil, nil, err
	}
	prev, err := h.existing(db, msg.Alias)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, prev, msg.Splits, nil
}

type deleteHandler struct {
	routeHandler
}

var _ splitpay.Handler = (*deleteHandler)(nil)

func (h *deleteHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *deleteHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	a, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr := Address(a.Alias)
	if err := h.routes.Delete(db, addr); err != nil {
		return nil, errors.Wrap(err, "delete")
	}
	if _, err := h.ledger.Release(db, addr, a.Owner); err != nil {
		return nil, err
	}
	splitpay.GetLogger(ctx).With("alias", a.Alias).Info("route deleted")
	return &splitpay.DeliverResult{}, nil
}

func (h *deleteHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*alias.AliasRecord, error) {
	var msg DeleteMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	a, err := h.owned(ctx, db, msg.Alias)
	if err != nil {
		return nil, err
	}
	// A route that cannot be decoded must be retired with the migrate
	// stale message.
	if _, err := h.routes.Lookup(db, msg.Alias); err != nil {
		return nil, err
	}
	return a, nil
}

type migrateStaleHandler struct {
	routeHandler
}

var _ splitpay.Handler = (*migrateStaleHandler)(nil)

func (h *migrateStaleHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *migrateStaleHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	a, addr, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	refund, err := h.ledger.Release(db, addr, a.Owner)
	if err != nil {
		return nil, err
	}
	if err := h.routes.DeleteRaw(db, addr); err != nil {
		return nil, errors.Wrap(err, "delete")
	}
	splitpay.GetLogger(ctx).With("alias", a.Alias, "refund", refund).Info("stale route retired")
	return &splitpay.DeliverResult{}, nil
}

func (h *migrateStaleHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*alias.AliasRecord, splitpay.Address, error) {
	var msg MigrateStaleMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	a, err := h.owned(ctx, db, msg.Alias)
	if err != nil {
		return nil, nil, err
	}
	addr := Address(msg.Alias)
	if !addr.Equals(msg.RouteAddress) {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not the route address of %q", msg.RouteAddress, msg.Alias)
	}
	raw, err := h.routes.Raw(db, addr)
	if err != nil {
		return nil, nil, err
	}
	if raw.Owner != h.routes.Name() {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "record owned by %q", raw.Owner)
	}
	// Any failure past this point comes from the payload, which is what
	// makes the record stale.
	if _, err := h.routes.Lookup(db, msg.Alias); err == nil {
		return nil, nil, errors.Wrap(errors.ErrState, "route is readable, delete it instead")
	}
	return a, addr, nil
}
