package migration

import (
	"encoding/binary"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/orm"
	"github.com/iov-one/splitpay/wire"
)

func init() {
	MustRegister(1, &Schema{}, NoModification)
}

// Schema declares the schema version of a single package.
type Schema struct {
	Metadata *splitpay.Metadata
	Pkg      string
	Version  uint32
}

var _ orm.Model = (*Schema)(nil)

func (s *Schema) GetMetadata() *splitpay.Metadata {
	return s.Metadata
}

func (s *Schema) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if s.Version < 1 {
		return errors.Wrap(errors.ErrModel, "version must be greater than zero")
	}
	if s.Pkg == "" {
		return errors.Wrap(errors.ErrModel, "pkg is required")
	}
	return nil
}

func (s *Schema) Marshal() ([]byte, error) {
	e := wire.NewEncoder(len(s.Pkg) + 16)
	if err := e.Message(1, s.Metadata); err != nil {
		return nil, err
	}
	e.String(2, s.Pkg)
	e.Uint32(3, s.Version)
	return e.Result(), nil
}

func (s *Schema) Unmarshal(raw []byte) error {
	*s = Schema{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			s.Metadata = &splitpay.Metadata{}
			err = f.Message(s.Metadata)
		case 2:
			s.Pkg, err = f.String()
		case 3:
			s.Version, err = f.Uint32()
		}
		return err
	})
}

// schemaID returns a deterministic ID of this schema instance. Created IDs
// can be sorted using lexicographical order from the lowest to the highest
// version.
func schemaID(pkg string, version uint32) []byte {
	raw := make([]byte, len(pkg)+4)
	copy(raw, pkg)
	binary.BigEndian.PutUint32(raw[len(pkg):], version)
	return raw
}

// SchemaBucket keeps track of the schema version of each package.
type SchemaBucket struct {
	orm.ModelBucket
}

func NewSchemaBucket() *SchemaBucket {
	// Schema bucket is using plain orm.ModelBucket implementation so that
	// it can insert entities without schema version being registered. It
	// cannot use migration bucket implementation because it would cause
	// circular dependency on itself.
	return &SchemaBucket{
		ModelBucket: orm.NewModelBucket("schema", &Schema{}),
	}
}

// MustInitPkg initialize schema versioning for given package names. This
// registers a version one schema.
// This function panics if not successful. It is safe to call this function
// many times as duplicate registrations are ignored.
func MustInitPkg(db splitpay.KVStore, packageNames ...string) {
	b := NewSchemaBucket()
	for _, name := range packageNames {
		err := b.Create(db, &Schema{
			Metadata: &splitpay.Metadata{Schema: 1},
			Pkg:      name,
			Version:  1,
		})
		// Duplicated initializations are ignored.
		if err != nil && !errors.ErrDuplicate.Is(err) {
			panic(errors.Wrap(err, name))
		}
	}
}

// CurrentSchema returns the current version of the schema for a given package.
// It returns ErrNotFound if no schema version was registered for this package.
// Minimum schema version is 1.
func (b *SchemaBucket) CurrentSchema(db splitpay.ReadOnlyKVStore, packageName string) (uint32, error) {
	for ver := uint32(1); ver < 10000; ver++ {
		ok, err := b.ModelBucket.Has(db, schemaID(packageName, ver))
		if err != nil {
			return 0, errors.Wrap(err, "bucket has")
		}
		if ok {
			continue
		}
		if ver == 1 {
			return 0, errors.Wrapf(errors.ErrNotFound, "package %q not initialized", packageName)
		}
		return ver - 1, nil
	}
	return 0, errors.Wrap(errors.ErrState, "version too high")
}

// One prevents direct access to the bucket content. Use CurrentSchema method
// instead.
func (b *SchemaBucket) One(db splitpay.ReadOnlyKVStore, key []byte, dest orm.Model) error {
	return errors.Wrap(errors.ErrHuman, "this bucket does not allow for a direct value access")
}

// Put prevents writes that skip version validation. Use Create method
// instead.
func (b *SchemaBucket) Put(db splitpay.KVStore, key []byte, m orm.Model) error {
	return errors.Wrap(errors.ErrHuman, "use Create to insert a new schema version")
}

// Create adds given schema instance to the store. Only the next version of
// the package schema can be created.
func (b *SchemaBucket) Create(db splitpay.KVStore, s *Schema) error {
	if err := b.validateNextSchema(db, s); err != nil {
		return err
	}
	return b.ModelBucket.Put(db, schemaID(s.Pkg, s.Version), s)
}

// validateNextSchema returns an error if given Schema instance does not
// represent the next valid schema version.
func (b *SchemaBucket) validateNextSchema(db splitpay.ReadOnlyKVStore, next *Schema) error {
	ver, err := b.CurrentSchema(db, next.Pkg)
	switch {
	case errors.ErrNotFound.Is(err):
		if next.Version != 1 {
			return errors.Wrap(errors.ErrInput, "schema not initialized with version 1")
		}
		return nil
	case err != nil:
		return errors.Wrap(err, "current schema")
	}
	if ver+1 != next.Version {
		// Schema versioning is sequential and the numbers must be incrementing.
		return errors.Wrapf(errors.ErrDuplicate, "previous schema is %d", ver)
	}
	return nil
}

// RegisterQuery registers schema bucket for querying.
func RegisterQuery(qr splitpay.QueryRouter) {
	NewSchemaBucket().ModelBucket.Register("schemas", qr)
}
