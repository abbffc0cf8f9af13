package route

import (
	"testing"

	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/split"
	"github.com/iov-one/splitpay/splittest"
	"github.com/iov-one/splitpay/splittest/assert"
	"github.com/iov-one/splitpay/x/alias"
)

func TestValidateSplits(t *testing.T) {
	r1 := splittest.RandomAddr(t)
	r2 := splittest.RandomAddr(t)
	r3 := splittest.RandomAddr(t)

	cases := map[string]struct {
		splits  []split.Split
		max     int
		wantErr *errors.Error
	}{
		"empty list is valid": {
			max: 5,
		},
		"single recipient takes all": {
			splits: []split.Split{{Recipient: r1, Weight: 10000}},
			max:    5,
		},
		"weights sum to the whole": {
			splits: []split.Split{{Recipient: r1, Weight: 6000}, {Recipient: r2, Weight: 4000}},
			max:    5,
		},
		"partial total": {
			splits:  []split.Split{{Recipient: r1, Weight: 6000}, {Recipient: r2, Weight: 3999}},
			max:     5,
			wantErr: ErrInvalidSplitTotal,
		},
		"total above the whole": {
			splits:  []split.Split{{Recipient: r1, Weight: 6000}, {Recipient: r2, Weight: 4001}},
			max:     5,
			wantErr: ErrInvalidSplitTotal,
		},
		"duplicate recipient with a valid total": {
			splits:  []split.Split{{Recipient: r1, Weight: 6000}, {Recipient: r2, Weight: 4000}, {Recipient: r1, Weight: 0}},
			max:     5,
			wantErr: ErrDuplicateRecipient,
		},
		"too many splits": {
			splits:  []split.Split{{Recipient: r1, Weight: 5000}, {Recipient: r2, Weight: 3000}, {Recipient: r3, Weight: 2000}},
			max:     2,
			wantErr: ErrTooManySplits,
		},
		"alias address as recipient": {
			splits:  []split.Split{{Recipient: alias.Address("shop"), Weight: 10000}},
			max:     5,
			wantErr: ErrSelfReference,
		},
		"route address as recipient": {
			splits:  []split.Split{{Recipient: r1, Weight: 5000}, {Recipient: Address("shop"), Weight: 5000}},
			max:     5,
			wantErr: ErrSelfReference,
		},
		"missing recipient": {
			splits:  []split.Split{{Weight: 10000}},
			max:     5,
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := ValidateSplits("shop", tc.splits, tc.max)
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestRouteRecordSerialization(t *testing.T) {
	r := RouteRecord{
		Metadata: meta(),
		Alias:    "shop",
		AliasRef: splittest.RandomAddr(t),
		Splits: []split.Split{
			{Recipient: splittest.RandomAddr(t), Weight: 2500},
			{Recipient: splittest.RandomAddr(t), Weight: 7500},
		},
	}
	assert.Nil(t, r.Validate())
	raw, err := r.Marshal()
	assert.Nil(t, err)

	var got RouteRecord
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, r, got)
}

func TestConfigurationValidate(t *testing.T) {
	cases := map[string]struct {
		conf    Configuration
		wantErr *errors.Error
	}{
		"default": {
			conf: Configuration{Metadata: meta(), MaxSplits: 5},
		},
		"zero splits": {
			conf:    Configuration{Metadata: meta()},
			wantErr: errors.ErrInput,
		},
		"above the hard limit": {
			conf:    Configuration{Metadata: meta(), MaxSplits: 6},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.conf.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, "MaxSplits", tc.wantErr)
		})
	}
}
