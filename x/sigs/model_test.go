package sigs

import (
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/crypto"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/splittest/assert"
)

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	cases := map[string]struct {
		user    UserData
		wantErr *errors.Error
	}{
		"fresh user": {
			user: UserData{Metadata: &splitpay.Metadata{Schema: 1}},
		},
		"user with a key": {
			user: UserData{Metadata: &splitpay.Metadata{Schema: 1}, Pubkey: pub, Sequence: 4},
		},
		"sequence without a key": {
			user:    UserData{Metadata: &splitpay.Metadata{Schema: 1}, Sequence: 4},
			wantErr: ErrInvalidSequence,
		},
		"negative sequence": {
			user:    UserData{Metadata: &splitpay.Metadata{Schema: 1}, Pubkey: pub, Sequence: -1},
			wantErr: ErrInvalidSequence,
		},
		"missing metadata": {
			user:    UserData{Pubkey: pub},
			wantErr: errors.ErrModel,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestUserDataSerialization(t *testing.T) {
	u := UserData{
		Metadata: &splitpay.Metadata{Schema: 1},
		Pubkey:   crypto.GenPrivKeyEd25519().PublicKey(),
		Sequence: 123,
	}
	raw, err := u.Marshal()
	assert.Nil(t, err)

	var got UserData
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, u.Sequence, got.Sequence)
	assert.Equal(t, u.Pubkey.Ed25519, got.Pubkey.Ed25519)
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := UserData{Metadata: &splitpay.Metadata{Schema: 1}, Sequence: 7}
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(6))
	assert.Nil(t, u.CheckAndIncrementSequence(7))
	assert.Equal(t, int64(8), u.Sequence)

	u.Sequence = (1 << 53) - 1
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence(u.Sequence))
}
