package alias

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/x"
)

const packageName = "alias"

// Ledger locks and releases record deposits.
type Ledger interface {
	Deposit(db splitpay.KVStore, payer, record splitpay.Address) (uint64, error)
	Release(db splitpay.KVStore, record, to splitpay.Address) (uint64, error)
}

// RegisterRoutes registers handlers for alias message processing.
func RegisterRoutes(r splitpay.Registry, auth x.Authenticator, ledger Ledger) {
	b := NewBucket()
	r.Handle(pathRegisterMsg, migration.SchemaMigratingHandler(packageName, &registerHandler{auth: auth, bucket: b, ledger: ledger}))
	r.Handle(pathUpdateMetadataMsg, migration.SchemaMigratingHandler(packageName, &updateMetadataHandler{auth: auth, bucket: b}))
	r.Handle(pathDeactivateMsg, migration.SchemaMigratingHandler(packageName, &deactivateHandler{auth: auth, bucket: b}))
	r.Handle(pathReactivateMsg, migration.SchemaMigratingHandler(packageName, &reactivateHandler{auth: auth, bucket: b}))
	r.Handle(pathDeleteMsg, migration.SchemaMigratingHandler(packageName, &deleteHandler{auth: auth, bucket: b, ledger: ledger}))
	r.Handle(pathTransferMsg, migration.SchemaMigratingHandler(packageName, &transferHandler{auth: auth, bucket: b}))
}

// loadOwned returns the record of given alias if it is owned by a signer of
// the transaction.
func loadOwned(ctx splitpay.Context, auth x.Authenticator, b Bucket, db splitpay.ReadOnlyKVStore, name string) (*AliasRecord, error) {
	rec, err := b.Lookup(db, name)
	if err != nil {
		return nil, err
	}
	if err := x.RequireSigner(ctx, auth, rec.Owner, "alias owner"); err != nil {
		return nil, err
	}
	return rec, nil
}

type registerHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ledger Ledger
}

var _ splitpay.Handler = (*registerHandler)(nil)

func (h *registerHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *registerHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := splitpay.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	serial, err := h.bucket.nextSerial(db)
	if err != nil {
		return nil, err
	}
	rec := &AliasRecord{
		Metadata:     &splitpay.Metadata{Schema: 1},
		Owner:        msg.Owner,
		Alias:        msg.Alias,
		MetadataURI:  msg.MetadataURI,
		Version:      1,
		Active:       true,
		RegisteredAt: splitpay.AsUnixTime(now),
		Serial:       serial,
	}
	if err := h.bucket.Save(db, rec); err != nil {
		return nil, errors.Wrap(err, "save")
	}
	addr := Address(msg.Alias)
	if _, err := h.ledger.Deposit(db, msg.Owner, addr); err != nil {
		return nil, err
	}
	splitpay.GetLogger(ctx).With("alias", msg.Alias).Info("alias registered")
	return &splitpay.DeliverResult{Data: addr}, nil
}

func (h *registerHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*RegisterMsg, error) {
	var msg RegisterMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Owner, "owner"); err != nil {
		return nil, err
	}
	switch ok, err := h.bucket.Has(db, Address(msg.Alias)); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrDuplicate, "alias %q is registered", msg.Alias)
	}
	return &msg, nil
}

type updateMetadataHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ splitpay.Handler = (*updateMetadataHandler)(nil)

func (h *updateMetadataHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *updateMetadataHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Save(db, rec); err != nil {
		return nil, errors.Wrap(err, "save")
	}
	return &splitpay.DeliverResult{}, nil
}

func (h *updateMetadataHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*AliasRecord, error) {
	var msg UpdateMetadataMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	rec, err := loadOwned(ctx, h.auth, h.bucket, db, msg.Alias)
	if err != nil {
		return nil, err
	}
	rec.MetadataURI = msg.MetadataURI
	return rec, nil
}

type deactivateHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ splitpay.Handler = (*deactivateHandler)(nil)

func (h *deactivateHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *deactivateHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	rec.Active = false
	if err := h.bucket.Save(db, rec); err != nil {
		return nil, errors.Wrap(err, "save")
	}
	splitpay.GetLogger(ctx).With("alias", rec.Alias).Info("alias deactivated")
	return &splitpay.DeliverResult{}, nil
}

func (h *deactivateHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*AliasRecord, error) {
	var msg DeactivateMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	rec, err := loadOwned(ctx, h.auth, h.bucket, db, msg.Alias)
	if err != nil {
		return nil, err
	}
	if !rec.Active {
		return nil, errors.Wrapf(ErrAliasAlreadyInactive, "%q", rec.Alias)
	}
	return rec, nil
}

type reactivateHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ splitpay.Handler = (*reactivateHandler)(nil)

func (h *reactivateHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *reactivateHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	rec.Active = true
	if err := h.bucket.Save(db, rec); err != nil {
		return nil, errors.Wrap(err, "save")
	}
	splitpay.GetLogger(ctx).With("alias", rec.Alias).Info("alias reactivated")
	return &splitpay.DeliverResult{}, nil
}

func (h *reactivateHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*AliasRecord, error) {
	var msg ReactivateMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	rec, err := loadOwned(ctx, h.auth, h.bucket, db, msg.Alias)
	if err != nil {
		return nil, err
	}
	if rec.Active {
		return nil, errors.Wrapf(ErrAliasAlreadyActive, "%q", rec.Alias)
	}
	return rec, nil
}

type deleteHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ledger Ledger
}

var _ splitpay.Handler = (*deleteHandler)(nil)

func (h *deleteHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *deleteHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr := Address(rec.Alias)
	if err := h.bucket.Delete(db, addr); err != nil {
		return nil, errors.Wrap(err, "delete")
	}
	if _, err := h.ledger.Release(db, addr, rec.Owner); err != nil {
		return nil, err
	}
	// Routes are not removed. A route left behind is bound to the
	// identity of this record and is rejected by the settlement.
	splitpay.GetLogger(ctx).With("alias", rec.Alias).Info("alias deleted")
	return &splitpay.DeliverResult{}, nil
}

func (h *deleteHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*AliasRecord, error) {
	var msg DeleteMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return loadOwned(ctx, h.auth, h.bucket, db, msg.Alias)
}

type transferHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ splitpay.Handler = (*transferHandler)(nil)

func (h *transferHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *transferHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Save(db, rec); err != nil {
		return nil, errors.Wrap(err, "save")
	}
	splitpay.GetLogger(ctx).With("alias", rec.Alias, "version", rec.Version).Info("alias transferred")
	return &splitpay.DeliverResult{}, nil
}

func (h *transferHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*AliasRecord, error) {
	var msg TransferMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	rec, err := loadOwned(ctx, h.auth, h.bucket, db, msg.Alias)
	if err != nil {
		return nil, err
	}
	if rec.Owner.Equals(msg.NewOwner) {
		return nil, errors.Wrap(errors.ErrInput, "already the owner")
	}
	if rec.Version == ^uint32(0) {
		return nil, errors.Wrap(errors.ErrOverflow, "version")
	}
	rec.Owner = msg.NewOwner
	rec.Version++
	return rec, nil
}
