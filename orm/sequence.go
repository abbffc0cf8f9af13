package orm

import (
	"encoding/binary"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s *Sequence) NextVal(db splitpay.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db, 1)
	return bz, err
}

// NextInt increments the sequence and returns its state as int.
func (s *Sequence) NextInt(db splitpay.KVStore) (int64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the recently returned value of the sequence. This method does
// not modify the sequence state. Use NextVal or NextInt to acquire a sequence
// value that was not given to anyone else.
func (s *Sequence) Latest(db splitpay.ReadOnlyKVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, errors.Wrap(err, "db get")
	}
	val, err := DecodeSequence(raw)
	if err != nil {
		return 0, nil, err
	}
	return val, EncodeSequence(val), nil
}

func (s *Sequence) increment(db splitpay.KVStore, inc int64) (int64, []byte, error) {
	val, _, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	val += inc
	raw := EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, errors.Wrap(err, "db set")
	}
	return val, raw, nil
}

// DecodeSequence returns the value of a sequence state. Missing state is
// zero.
func DecodeSequence(bz []byte) (int64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrSchema, "sequence must be 8 bytes, got %d", len(bz))
	}
	return int64(binary.BigEndian.Uint64(bz)), nil
}

// EncodeSequence returns the big endian representation of the value, so
// that lexicographic order of encoded values follows numeric order.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
