package payreq

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/x"
	"github.com/iov-one/splitpay/x/alias"
)

const packageName = "payreq"

// RegisterRoutes registers handlers for payment request processing.
func RegisterRoutes(r splitpay.Registry, auth x.Authenticator, ledger alias.Ledger) {
	b := NewBucket()
	aliases := alias.NewBucket()
	r.Handle(pathCreateMsg, migration.SchemaMigratingHandler(packageName, &createHandler{auth: auth, bucket: b, aliases: aliases, ledger: ledger}))
	r.Handle(pathCloseMsg, migration.SchemaMigratingHandler(packageName, &closeHandler{auth: auth, bucket: b, aliases: aliases, ledger: ledger}))
}

type createHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	aliases alias.Bucket
	ledger  alias.Ledger
}

var _ splitpay.Handler = (*createHandler)(nil)

func (h *createHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *createHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := splitpay.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	req := &PaymentRequest{
		Metadata:       &splitpay.Metadata{Schema: 1},
		Sender:         msg.Sender,
		RecipientAlias: msg.RecipientAlias,
		Amount:         msg.Amount,
		Concept:        msg.Concept,
		Timestamp:      splitpay.AsUnixTime(now),
	}
	addr := Address(msg.RecipientAlias, msg.Sender)
	if err := h.bucket.Put(db, addr, req); err != nil {
		return nil, errors.Wrap(err, "save")
	}
	if _, err := h.ledger.Deposit(db, msg.Sender, addr); err != nil {
		return nil, err
	}
	return &splitpay.DeliverResult{Data: addr}, nil
}

func (h *createHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Sender, "sender"); err != nil {
		return nil, err
	}
	if _, err := h.aliases.Lookup(db, msg.RecipientAlias); err != nil {
		return nil, err
	}
	switch ok, err := h.bucket.Has(db, Address(msg.RecipientAlias, msg.Sender)); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrDuplicate, "request to %q", msg.RecipientAlias)
	}
	return &msg, nil
}

type closeHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	aliases alias.Bucket
	ledger  alias.Ledger
}

var _ splitpay.Handler = (*closeHandler)(nil)

func (h *closeHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *closeHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	req, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr := Address(req.RecipientAlias, req.Sender)
	if err := h.bucket.Delete(db, addr); err != nil {
		return nil, errors.Wrap(err, "delete")
	}
	if _, err := h.ledger.Release(db, addr, req.Sender); err != nil {
		return nil, err
	}
	return &splitpay.DeliverResult{}, nil
}

func (h *closeHandler) validate(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*PaymentRequest, error) {
	var msg CloseMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var req PaymentRequest
	if err := h.bucket.One(db, Address(msg.RecipientAlias, msg.Sender), &req); err != nil {
		return nil, errors.Wrap(err, "payment request")
	}
	if x.SignedByAny(ctx, h.auth, req.Sender) {
		return &req, nil
	}
	switch a, err := h.aliases.Lookup(db, req.RecipientAlias); {
	case err == nil && x.SignedByAny(ctx, h.auth, a.Owner):
		return &req, nil
	case err != nil && !errors.ErrNotFound.Is(err):
		return nil, err
	}
	return nil, errors.Wrap(errors.ErrUnauthorized, "only the sender or the alias owner can close")
}
