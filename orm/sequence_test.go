package orm

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	cases := []struct {
		bucket     string
		name       string
		init       int64
		increments int64
	}{
		0: {"a", "id", 0, 22},
		1: {"a", "other", 0, 11},
		2: {"a", "id", 22, 18},
		3: {"b", "id", 0, 77},
		4: {"a", "other", 11, 248},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			s := NewSequence(tc.bucket, tc.name)
			_, orig, err := s.Latest(db)
			require.NoError(t, err)

			var val int64
			for i := int64(0); i < tc.increments; i++ {
				val, err = s.NextInt(db)
				require.NoError(t, err)
			}
			// expect the final value to be this
			expect := tc.init + tc.increments
			assert.Equal(t, expect, val)

			// make sure final value is bigger than original value
			// if we use the raw bytes to index stuff
			_, last, err := s.Latest(db)
			require.NoError(t, err)
			assert.Equal(t, 1, bytes.Compare(last, orig))
		})
	}
}

func TestSequenceNextVal(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("payreqs", "id")

	first, err := s.NextVal(db)
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(1), first)

	second, err := s.NextVal(db)
	require.NoError(t, err)
	assert.Equal(t, -1, bytes.Compare(first, second))

	n, _, err := s.Latest(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestDecodeSequence(t *testing.T) {
	n, err := DecodeSequence(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = DecodeSequence(EncodeSequence(1234))
	require.NoError(t, err)
	assert.Equal(t, int64(1234), n)

	_, err = DecodeSequence([]byte{1, 2, 3})
	assert.True(t, errors.ErrSchema.Is(err))
}
