package crypto

import (
	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/wire"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a condition. Empty key has no
// condition.
func (p *PublicKey) Condition() splitpay.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return splitpay.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address of the key holder.
func (p *PublicKey) Address() splitpay.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrInput, "invalid ed25519 public key")
	}
	return nil
}

func (p *PublicKey) Marshal() ([]byte, error) {
	e := wire.NewEncoder(len(p.Ed25519) + 2)
	e.Bytes(1, p.Ed25519)
	return e.Result(), nil
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	p.Ed25519 = nil
	return wire.Decode(raw, func(f wire.Field) (err error) {
		if f.Num == 1 {
			p.Ed25519, err = f.Bytes()
		}
		return err
	})
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

func (s *Signature) Marshal() ([]byte, error) {
	e := wire.NewEncoder(len(s.Ed25519) + 2)
	e.Bytes(1, s.Ed25519)
	return e.Result(), nil
}

func (s *Signature) Unmarshal(raw []byte) error {
	s.Ed25519 = nil
	return wire.Decode(raw, func(f wire.Field) (err error) {
		if f.Num == 1 {
			s.Ed25519, err = f.Bytes()
		}
		return err
	})
}

// PrivateKey is an ed25519 private key in its 64 byte form.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrState, "invalid ed25519 private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return &PublicKey{}
	}
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (p *PrivateKey) Marshal() ([]byte, error) {
	e := wire.NewEncoder(len(p.Ed25519) + 2)
	e.Bytes(1, p.Ed25519)
	return e.Result(), nil
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	p.Ed25519 = nil
	err := wire.Decode(raw, func(f wire.Field) (err error) {
		if f.Num == 1 {
			p.Ed25519, err = f.Bytes()
		}
		return err
	})
	if err != nil {
		return err
	}
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return errors.Wrap(errors.ErrSchema, "invalid ed25519 private key")
	}
	return nil
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
