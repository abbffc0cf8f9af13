package alias

import (
	"encoding/binary"
	"regexp"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/orm"
	"github.com/iov-one/splitpay/wire"
)

func init() {
	migration.MustRegister(1, &AliasRecord{}, migration.NoModification)
}

const (
	minAliasLength    = 3
	maxAliasLength    = 32
	maxMetadataLength = 200
)

var isAliasChars = regexp.MustCompile(`^[a-z0-9_]*$`).MatchString

// ValidateAlias returns an error if given name is not a valid alias.
func ValidateAlias(name string) error {
	if n := len(name); n < minAliasLength || n > maxAliasLength {
		return errors.Wrapf(ErrInvalidAliasLength, "%d characters, want %d to %d", n, minAliasLength, maxAliasLength)
	}
	if !isAliasChars(name) {
		return errors.Wrapf(ErrInvalidAliasCharacters, "%q", name)
	}
	return nil
}

func validateMetadataURI(uri string) error {
	if len(uri) > maxMetadataLength {
		return errors.Wrapf(ErrMetadataTooLong, "%d bytes, max %d", len(uri), maxMetadataLength)
	}
	return nil
}

// Address returns the address an alias record is stored under.
func Address(name string) splitpay.Address {
	return splitpay.Derive("alias", []byte(name))
}

// AliasRecord binds an alias to its owner.
type AliasRecord struct {
	Metadata    *splitpay.Metadata `json:"metadata"`
	Owner       splitpay.Address   `json:"owner"`
	Alias       string             `json:"alias"`
	MetadataURI string             `json:"metadata_uri"`
	// Version starts at 1 and is bumped on every ownership change.
	Version uint32 `json:"version"`
	Active  bool   `json:"is_active"`
	// RegisteredAt is the block time of the registration.
	RegisteredAt splitpay.UnixTime `json:"registered_at"`
	// Serial is the global registration sequence number.
	Serial uint64 `json:"serial"`
}

var _ orm.Model = (*AliasRecord)(nil)

func (a *AliasRecord) GetMetadata() *splitpay.Metadata {
	return a.Metadata
}

func (a *AliasRecord) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	errs = errors.AppendField(errs, "Alias", ValidateAlias(a.Alias))
	errs = errors.AppendField(errs, "MetadataURI", validateMetadataURI(a.MetadataURI))
	if a.Version < 1 {
		errs = errors.Append(errs, errors.Field("Version", errors.ErrModel, "must be at least 1"))
	}
	errs = errors.AppendField(errs, "RegisteredAt", a.RegisteredAt.Validate())
	if a.Serial < 1 {
		errs = errors.Append(errs, errors.Field("Serial", errors.ErrModel, "must be at least 1"))
	}
	return errs
}

// Identity returns the address identifying this registration of the alias.
// It changes when the alias is deleted and registered again and when the
// ownership is transferred.
func (a *AliasRecord) Identity() splitpay.Address {
	var nums [12]byte
	binary.BigEndian.PutUint64(nums[:8], a.Serial)
	binary.BigEndian.PutUint32(nums[8:], a.Version)
	return splitpay.Derive("aliasref", []byte(a.Alias), []byte{0}, a.Owner, nums[:])
}

func (a *AliasRecord) Marshal() ([]byte, error) {
	e := wire.NewEncoder(64 + len(a.Alias) + len(a.MetadataURI))
	if err := e.Message(1, a.Metadata); err != nil {
		return nil, err
	}
	e.Bytes(2, a.Owner)
	e.String(3, a.Alias)
	e.String(4, a.MetadataURI)
	e.Uint32(5, a.Version)
	e.Bool(6, a.Active)
	e.Int64(7, int64(a.RegisteredAt))
	e.Uint64(8, a.Serial)
	return e.Result(), nil
}

func (a *AliasRecord) Unmarshal(raw []byte) error {
	*a = AliasRecord{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			a.Metadata = &splitpay.Metadata{}
			err = f.Message(a.Metadata)
		case 2:
			var b []byte
			b, err = f.Bytes()
			a.Owner = b
		case 3:
			a.Alias, err = f.String()
		case 4:
			a.MetadataURI, err = f.String()
		case 5:
			a.Version, err = f.Uint32()
		case 6:
			a.Active, err = f.Bool()
		case 7:
			var t int64
			t, err = f.Int64()
			a.RegisteredAt = splitpay.UnixTime(t)
		case 8:
			a.Serial, err = f.Uint64()
		}
		return err
	})
}

// Bucket stores alias records under the alias address.
type Bucket struct {
	*migration.ModelBucket
	serial orm.Sequence
}

// NewBucket returns a bucket of alias records, indexed by owner.
func NewBucket() Bucket {
	b := orm.NewModelBucket("alias", &AliasRecord{},
		orm.WithIndex("owner", splitpay.AddressLength, ownerIndexer))
	return Bucket{
		ModelBucket: migration.NewModelBucket("alias", b),
		serial:      orm.NewSequence("alias", "serial"),
	}
}

func ownerIndexer(m orm.Model) ([]byte, error) {
	a, ok := m.(*AliasRecord)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return a.Owner, nil
}

// Lookup returns the record of given alias or ErrNotFound.
func (b Bucket) Lookup(db splitpay.ReadOnlyKVStore, name string) (*AliasRecord, error) {
	if err := ValidateAlias(name); err != nil {
		return nil, err
	}
	var a AliasRecord
	if err := b.One(db, Address(name), &a); err != nil {
		return nil, errors.Wrapf(err, "alias %q", name)
	}
	return &a, nil
}

// Save writes the record under its alias address.
func (b Bucket) Save(db splitpay.KVStore, a *AliasRecord) error {
	return b.Put(db, Address(a.Alias), a)
}

// nextSerial returns the next registration serial number.
func (b Bucket) nextSerial(db splitpay.KVStore) (uint64, error) {
	n, err := b.serial.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "serial")
	}
	return uint64(n), nil
}

// RegisterQuery registers the alias bucket under "/aliases".
func RegisterQuery(qr splitpay.QueryRouter) {
	NewBucket().Register("aliases", qr)
}
