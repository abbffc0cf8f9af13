package sigs

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/crypto"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/orm"
	"github.com/iov-one/splitpay/wire"
)

func init() {
	migration.MustRegister(1, &UserData{}, migration.NoModification)
}

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData tracks the replay protection state of a single signer.
type UserData struct {
	Metadata *splitpay.Metadata
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) GetMetadata() *splitpay.Metadata {
	return u.Metadata
}

func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", u.Metadata.Validate())
	if seq := u.Sequence; seq < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	} else if seq > 0 && u.Pubkey == nil {
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	if u.Pubkey != nil {
		errs = errors.AppendField(errs, "Pubkey", u.Pubkey.Validate())
	}
	return errs
}

func (u *UserData) Marshal() ([]byte, error) {
	e := wire.NewEncoder(64)
	if err := e.Message(1, u.Metadata); err != nil {
		return nil, err
	}
	if u.Pubkey != nil {
		if err := e.Message(2, u.Pubkey); err != nil {
			return nil, err
		}
	}
	e.Int64(3, u.Sequence)
	return e.Result(), nil
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			u.Metadata = &splitpay.Metadata{}
			err = f.Message(u.Metadata)
		case 2:
			u.Pubkey = &crypto.PublicKey{}
			err = f.Message(u.Pubkey)
		case 3:
			u.Sequence, err = f.Int64()
		}
		return err
	})
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// The greatest nonce a javascript client can represent is
	//   Number.MAX_SAFE_INTEGER = 2^53 - 1
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	*migration.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	b := orm.NewModelBucket(BucketName, &UserData{})
	return Bucket{
		ModelBucket: migration.NewModelBucket("sigs", b),
	}
}

// GetOrCreate loads the UserData of given key holder. A new, not yet
// persisted, instance is returned if none exist.
func (b Bucket) GetOrCreate(db splitpay.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &splitpay.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, err
	}
}

// Save writes the user under the address of its public key.
func (b Bucket) Save(db splitpay.KVStore, u *UserData) error {
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	return b.Put(db, u.Pubkey.Address(), u)
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr splitpay.QueryRouter) {
	NewBucket().Register("auth", qr)
}
