package cash

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r splitpay.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, migration.SchemaMigratingHandler("cash", NewSendHandler(auth, control)))
	r.Handle(pathOpenTokenAccountMsg, migration.SchemaMigratingHandler("cash", &openTokenAccountHandler{auth: auth, control: control}))
	r.Handle(pathUpdateConfigurationMsg, migration.SchemaMigratingHandler("cash", NewConfigHandler(auth)))
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ splitpay.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed
func (h SendHandler) Check(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	splitpay.GetLogger(ctx).With("amount", msg.Amount).Debug("native transfer")
	return &splitpay.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx splitpay.Context, tx splitpay.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Source, "account owner"); err != nil {
		return nil, err
	}
	return &msg, nil
}

type openTokenAccountHandler struct {
	auth    x.Authenticator
	control Controller
}

func (h *openTokenAccountHandler) Check(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h *openTokenAccountHandler) Deliver(ctx splitpay.Context, store splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.control.OpenTokenAccount(store, msg.Owner, msg.Ticker)
	if err != nil {
		return nil, err
	}
	return &splitpay.DeliverResult{Data: addr}, nil
}

func (h *openTokenAccountHandler) validate(ctx splitpay.Context, tx splitpay.Tx) (*OpenTokenAccountMsg, error) {
	var msg OpenTokenAccountMsg
	if err := splitpay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Owner, "owner"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NewConfigHandler returns a handler of the configuration patch message.
// A configuration that was not created in genesis can be created by the
// migration admin.
func NewConfigHandler(auth x.Authenticator) splitpay.Handler {
	var conf Configuration
	return gconf.NewUpdateHandler(confPkg, &conf, auth, migration.CurrentAdmin)
}
