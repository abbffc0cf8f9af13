package gconf

import (
	"reflect"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/x"
)

// OwnedConfig is a configuration that declares who may change it.
type OwnedConfig interface {
	Unmarshaler
	ValidMarshaler
	GetOwner() splitpay.Address
}

// PatchMsg is a message carrying a partial configuration. Non zero fields of
// the patch replace the stored values.
type PatchMsg interface {
	splitpay.Msg
	ConfigPatch() OwnedConfig
}

// AdminFunc returns the address allowed to create a configuration that was
// not provided by the genesis.
type AdminFunc func(splitpay.ReadOnlyKVStore) (splitpay.Address, error)

// UpdateHandler applies configuration patches of a single package.
type UpdateHandler struct {
	pkg       string
	kind      reflect.Type
	auth      x.Authenticator
	initAdmin AdminFunc
}

var _ splitpay.Handler = UpdateHandler{}

// NewUpdateHandler returns a handler that patches the configuration stored
// under pkg. The example value only declares the configuration type.
//
// An existing configuration can be changed only by its owner. A missing one
// can be created only by the address returned by initAdmin; a nil initAdmin
// forbids creation.
func NewUpdateHandler(pkg string, example OwnedConfig, auth x.Authenticator, initAdmin AdminFunc) UpdateHandler {
	return UpdateHandler{
		pkg:       pkg,
		kind:      reflect.TypeOf(example).Elem(),
		auth:      auth,
		initAdmin: initAdmin,
	}
}

func (h UpdateHandler) Check(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.CheckResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.CheckResult{}, nil
}

func (h UpdateHandler) Deliver(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) (*splitpay.DeliverResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &splitpay.DeliverResult{}, nil
}

func (h UpdateHandler) update(ctx splitpay.Context, db splitpay.KVStore, tx splitpay.Tx) error {
	current := reflect.New(h.kind).Interface().(OwnedConfig)
	if err := h.authorize(ctx, db, current); err != nil {
		return err
	}
	p, err := h.loadPatch(tx)
	if err != nil {
		return err
	}
	apply(current, p)
	if err := Save(db, h.pkg, current); err != nil {
		return errors.Wrap(err, "save configuration")
	}
	return nil
}

// authorize loads the current configuration into dest and ensures the
// request is signed by whoever may change it.
func (h UpdateHandler) authorize(ctx splitpay.Context, db splitpay.KVStore, dest OwnedConfig) error {
	err := Load(db, h.pkg, dest)
	switch {
	case err == nil:
		return x.RequireSigner(ctx, h.auth, dest.GetOwner(), "configuration owner")
	case !errors.ErrNotFound.Is(err):
		return errors.Wrap(err, "load configuration")
	case h.initAdmin == nil:
		return errors.Wrapf(errors.ErrUnauthorized, "%s configuration cannot be created", h.pkg)
	}
	admin, err := h.initAdmin(db)
	if err != nil {
		return errors.Wrap(err, "configuration admin")
	}
	return x.RequireSigner(ctx, h.auth, admin, "configuration admin")
}

func (h UpdateHandler) loadPatch(tx splitpay.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "message")
	}
	pm, ok := msg.(PatchMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "%T is not a configuration patch", msg)
	}
	if err := pm.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	p := pm.ConfigPatch()
	if p == nil || reflect.ValueOf(p).IsNil() {
		return nil, errors.Wrap(errors.ErrEmpty, "patch")
	}
	if reflect.TypeOf(p).Elem() != h.kind {
		return nil, errors.Wrapf(errors.ErrMsg, "patch of %T cannot update %s", p, h.kind)
	}
	return p, nil
}

// apply copies every non zero field of the patch into dest. Both must point
// to the same struct type.
func apply(dest, p OwnedConfig) {
	dv := reflect.ValueOf(dest).Elem()
	pv := reflect.ValueOf(p).Elem()
	for i := 0; i < pv.NumField(); i++ {
		if f := pv.Field(i); !f.IsZero() {
			dv.Field(i).Set(f)
		}
	}
}
