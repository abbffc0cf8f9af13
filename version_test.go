package splitpay_test

import (
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func() { splitpay.GitCommit = "" }()

	splitpay.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", splitpay.Version())

	splitpay.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", splitpay.Version())
}
