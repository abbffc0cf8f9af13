package migration

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/x"
)

// SchemaMigratingHandler wraps h so that every message reaches it already
// upgraded to the current schema of packageName. A message that cannot be
// brought up to date is rejected before h runs.
func SchemaMigratingHandler(packageName string, h splitpay.Handler) splitpay.Handler {
	return &migratingHandler{
		next:    h,
		pkg:     packageName,
		schemas: NewSchemaBucket(),
		reg:     reg,
	}
}

type migratingHandler struct {
	next    splitpay.Handler
	pkg     string
	schemas *SchemaBucket
	reg     *register
}

func (h *migratingHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if err := h.upgrade(db, tx); err != nil {
		return nil, err
	}
	return h.next.Check(ctx, db, tx)
}

func (h *migratingHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	if err := h.upgrade(db, tx); err != nil {
		return nil, err
	}
	return h.next.Deliver(ctx, db, tx)
}

// upgrade migrates the transaction message in place.
func (h *migratingHandler) upgrade(db splitpay.ReadOnlyKVStore, tx splitpay.Tx) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "message")
	}
	m, ok := msg.(Migratable)
	if !ok {
		return errors.Wrapf(errors.ErrMsg, "%T is not migratable", msg)
	}
	current, err := h.schemas.CurrentSchema(db, h.pkg)
	if err != nil {
		return errors.Wrapf(err, "%s schema", h.pkg)
	}
	if err := h.reg.Apply(db, m, current); err != nil {
		return errors.Wrapf(err, "migrate %s message", h.pkg)
	}
	return nil
}

// RegisterRoutes registers the schema upgrade message handler.
func RegisterRoutes(r splitpay.Registry, auth x.Authenticator) {
	r.Handle(pathUpgradeSchemaMsg, &upgradeSchemaHandler{
		bucket: NewSchemaBucket(),
		auth:   auth,
	})
}

// upgradeSchemaHandler bumps the schema version of a package. Only the
// migration admin can do that.
type upgradeSchemaHandler struct {
	bucket *SchemaBucket
	auth   x.Authenticator
}

func (h *upgradeSchemaHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.load(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *upgradeSchemaHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	msg, err := h.load(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	next := Schema{
		Metadata: &splitpay.Metadata{Schema: 1},
		Pkg:      msg.Pkg,
		Version:  msg.ToVersion,
	}
	if err := h.bucket.Create(db, &next); err != nil {
		return nil, errors.Wrapf(err, "upgrade %s to %d", msg.Pkg, msg.ToVersion)
	}
	return &splitpay.DeliverResult{Data: schemaID(msg.Pkg, msg.ToVersion)}, nil
}

func (h *upgradeSchemaHandler) load(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*UpgradeSchemaMsg, error) {
	var msg UpgradeSchemaMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, mustLoadConf(db).Admin, "migration admin"); err != nil {
		return nil, err
	}
	return &msg, nil
}
