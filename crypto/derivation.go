package crypto

import (
	"github.com/iov-one/splitpay/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DeriveKey returns the ed25519 private key found under given SLIP-0010
// derivation path, for example "m/44'/234'/0'". All path segments must be
// hardened.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "seed")
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
