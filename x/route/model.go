package route

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/orm"
	"github.com/iov-one/splitpay/split"
	"github.com/iov-one/splitpay/wire"
	"github.com/iov-one/splitpay/x/alias"
)

func init() {
	migration.MustRegister(1, &RouteRecord{}, migration.NoModification)
}

// MaxSplits is the upper bound of recipients of any route.
const MaxSplits = 5

const bucketName = "route"

// Address returns the address the route of given alias is stored under.
func Address(name string) splitpay.Address {
	return splitpay.Derive("route", []byte(name))
}

// ValidateSplits checks a split list configured for given alias. An empty
// list is valid.
func ValidateSplits(name string, splits []split.Split, max int) error {
	if len(splits) > max {
		return errors.Wrapf(ErrTooManySplits, "%d splits, max %d", len(splits), max)
	}
	if len(splits) == 0 {
		return nil
	}
	aliasAddr, routeAddr := alias.Address(name), Address(name)
	seen := make(map[string]struct{}, len(splits))
	var total uint32
	for i, s := range splits {
		if err := s.Recipient.Validate(); err != nil {
			return errors.Wrapf(err, "split %d recipient", i)
		}
		if s.Recipient.Equals(aliasAddr) || s.Recipient.Equals(routeAddr) {
			return errors.Wrapf(ErrSelfReference, "split %d", i)
		}
		if _, ok := seen[string(s.Recipient)]; ok {
			return errors.Wrapf(ErrDuplicateRecipient, "split %d: %s", i, s.Recipient)
		}
		seen[string(s.Recipient)] = struct{}{}
		total += uint32(s.Weight)
	}
	if total != split.BasisPoints {
		return errors.Wrapf(ErrInvalidSplitTotal, "weights sum to %d, want %d", total, split.BasisPoints)
	}
	return nil
}

// RouteRecord lists the recipients of payments made to an alias.
type RouteRecord struct {
	Metadata *splitpay.Metadata `json:"metadata"`
	Alias    string             `json:"alias"`
	// AliasRef is the identity of the alias registration this route was
	// configured for.
	AliasRef splitpay.Address `json:"alias_ref"`
	Splits   []split.Split    `json:"splits"`
}

var _ orm.Model = (*RouteRecord)(nil)

func (r *RouteRecord) GetMetadata() *splitpay.Metadata {
	return r.Metadata
}

func (r *RouteRecord) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", r.Metadata.Validate())
	errs = errors.AppendField(errs, "Alias", alias.ValidateAlias(r.Alias))
	errs = errors.AppendField(errs, "AliasRef", r.AliasRef.Validate())
	errs = errors.AppendField(errs, "Splits", ValidateSplits(r.Alias, r.Splits, MaxSplits))
	return errs
}

// BoundTo returns true if the route was configured for given registration
// of its alias.
func (r *RouteRecord) BoundTo(a *alias.AliasRecord) bool {
	return r.Alias == a.Alias && r.AliasRef.Equals(a.Identity())
}

func (r *RouteRecord) Marshal() ([]byte, error) {
	e := wire.NewEncoder(48 + len(r.Alias) + 32*len(r.Splits))
	if err := e.Message(1, r.Metadata); err != nil {
		return nil, err
	}
	e.String(2, r.Alias)
	e.Bytes(3, r.AliasRef)
	for i := range r.Splits {
		if err := e.Message(4, &r.Splits[i]); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

func (r *RouteRecord) Unmarshal(raw []byte) error {
	*r = RouteRecord{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			r.Metadata = &splitpay.Metadata{}
			err = f.Message(r.Metadata)
		case 2:
			r.Alias, err = f.String()
		case 3:
			var b []byte
			b, err = f.Bytes()
			r.AliasRef = b
		case 4:
			var s split.Split
			err = f.Message(&s)
			r.Splits = append(r.Splits, s)
		}
		return err
	})
}

// Bucket stores route records under the route address of their alias.
type Bucket struct {
	*migration.ModelBucket
}

// NewBucket returns a bucket of route records.
func NewBucket() Bucket {
	b := orm.NewModelBucket(bucketName, &RouteRecord{})
	return Bucket{ModelBucket: migration.NewModelBucket("route", b)}
}

// Lookup returns the route of given alias. A route that cannot be decoded
// fails with ErrSchema.
func (b Bucket) Lookup(db splitpay.ReadOnlyKVStore, name string) (*RouteRecord, error) {
	var r RouteRecord
	if err := b.One(db, Address(name), &r); err != nil {
		return nil, errors.Wrapf(err, "route %q", name)
	}
	return &r, nil
}

// Save writes the route under the route address of its alias.
func (b Bucket) Save(db splitpay.KVStore, r *RouteRecord) error {
	return b.Put(db, Address(r.Alias), r)
}

// RegisterQuery registers the route bucket under "/routes".
func RegisterQuery(qr splitpay.QueryRouter) {
	NewBucket().Register("routes", qr)
}
