package splittest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/crypto"
)

func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() splitpay.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) splitpay.Address {
	raw := make([]byte, splitpay.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return splitpay.Address(raw)
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) splitpay.Address {
	t.Helper()

	addr, err := splitpay.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// SequenceID returns the sequence value encoded the way orm.Sequence does.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
