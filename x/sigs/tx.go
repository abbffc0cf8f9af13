package sigs

import (
	"github.com/iov-one/splitpay/crypto"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/wire"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// signed content, without any signature.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of everyone who signed the tx.
	GetSignatures() []*StdSignature
}

// StdSignature is a single signature together with the key and the
// sequence it was created for.
type StdSignature struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	e := wire.NewEncoder(128)
	if s.Pubkey != nil {
		if err := e.Message(1, s.Pubkey); err != nil {
			return nil, err
		}
	}
	if s.Signature != nil {
		if err := e.Message(2, s.Signature); err != nil {
			return nil, err
		}
	}
	e.Int64(3, s.Sequence)
	return e.Result(), nil
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	return wire.Decode(raw, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			s.Pubkey = &crypto.PublicKey{}
			err = f.Message(s.Pubkey)
		case 2:
			s.Signature = &crypto.Signature{}
			err = f.Message(s.Signature)
		case 3:
			s.Sequence, err = f.Int64()
		}
		return err
	})
}
