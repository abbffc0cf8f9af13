/*
Package payreq implements requests for payment addressed to an alias.

A request is a note and moves no value. It is stored under the address
derived from the alias and the sender, so a sender can keep a single open
request per alias.
*/
package payreq

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/orm"
	"github.com/iov-one/splitpay/wire"
	"github.com/iov-one/splitpay/x/alias"
)

func init() {
	migration.MustRegister(1, &PaymentRequest{}, migration.NoModification)
}

const maxConceptLength = 100

func validateConcept(c string) error {
	if len(c) > maxConceptLength {
		return errors.Wrapf(ErrConceptTooLong, "%d bytes, max %d", len(c), maxConceptLength)
	}
	return nil
}

// Address returns the address a request of sender to given alias is stored
// under.
func Address(recipientAlias string, sender splitpay.Address) splitpay.Address {
	return splitpay.Derive("request", []byte(recipientAlias), sender)
}

// PaymentRequest asks for a payment to be made to an alias. It is immutable.
type PaymentRequest struct {
	Metadata       *splitpay.Metadata `json:"metadata"`
	Sender         splitpay.Address   `json:"sender"`
	RecipientAlias string             `json:"recipient_alias"`
	Amount         uint64             `json:"amount"`
	Concept        string             `json:"concept"`
	Timestamp      splitpay.UnixTime  `json:"timestamp"`
}

var _ orm.Model = (*PaymentRequest)(nil)

func (r *PaymentRequest) GetMetadata() *splitpay.Metadata {
	return r.Metadata
}

func (r *PaymentRequest) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", r.Metadata.Validate())
	errs = errors.AppendField(errs, "Sender", r.Sender.Validate())
	errs = errors.AppendField(errs, "RecipientAlias", alias.ValidateAlias(r.RecipientAlias))
	if r.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be greater than zero"))
	}
	errs = errors.AppendField(errs, "Concept", validateConcept(r.Concept))
	errs = errors.AppendField(errs, "Timestamp", r.Timestamp.Validate())
	return errs
}

func (r *PaymentRequest) Marshal() ([]byte, error) {
	e := wire.NewEncoder(64 + len(r.RecipientAlias) + len(r.Concept))
	if err := e.Message(1, r.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, r.Sender)
	e.String(3, r.RecipientAlias)
	e.Uint64(4, r.Amount)
	e.String(5, r.Concept)
	e.Int64(6, int64(r.Timestamp))
	return e.Result(), nil
}

func (r *PaymentRequest) Unmarshal(raw []byte) error {
	*r = PaymentRequest{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			r.Metadata = &splitpay.Metadata{}
			err = f.Message(r.Metadata)
		case 2:
			var b []byte
			b, err = f.Bytes()
			r.Sender = b
		case 3:
			r.RecipientAlias, err = f.String()
		case 4:
			r.Amount, err = f.Uint64()
		case 5:
			r.Concept, err = f.String()
		case 6:
			var t int64
			t, err = f.Int64()
			r.Timestamp = splitpay.UnixTime(t)
		}
		return err
	})
}

// Bucket stores payment requests, indexed by the recipient alias.
type Bucket struct {
	*migration.ModelBucket
}

// NewBucket returns a bucket of payment requests.
func NewBucket() Bucket {
	b := orm.NewModelBucket("payreq", &PaymentRequest{},
		orm.WithIndex("alias", splitpay.AddressLength, aliasIndexer))
	return Bucket{ModelBucket: migration.NewModelBucket("payreq", b)}
}

func aliasIndexer(m orm.Model) ([]byte, error) {
	r, ok := m.(*PaymentRequest)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return alias.Address(r.RecipientAlias), nil
}

// ByAlias returns all requests addressed to given alias.
func (b Bucket) ByAlias(db splitpay.ReadOnlyKVStore, name string) ([]PaymentRequest, error) {
	var reqs []PaymentRequest
	if _, err := b.ByIndex(db, "alias", alias.Address(name), &reqs); err != nil {
		return nil, errors.Wrap(err, "by alias")
	}
	return reqs, nil
}

// RegisterQuery registers the request bucket under "/requests".
func RegisterQuery(qr splitpay.QueryRouter) {
	NewBucket().Register("requests", qr)
}
