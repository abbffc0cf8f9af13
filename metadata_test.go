package splitpay

import (
	"testing"

	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/splittest/assert"
)

func TestMetadata(t *testing.T) {
	var empty *Metadata
	assert.IsErr(t, errors.ErrModel, empty.Validate())
	assert.IsErr(t, errors.ErrModel, (&Metadata{}).Validate())

	m := &Metadata{Schema: 3}
	assert.Nil(t, m.Validate())

	raw, err := m.Marshal()
	assert.Nil(t, err)
	var got Metadata
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, *m, got)

	cpy := m.Copy()
	cpy.Schema = 4
	assert.Equal(t, uint32(3), m.Schema)
}
