package alias

import (
	"strings"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/splittest"
	"github.com/iov-one/splitpay/splittest/assert"
)

func TestValidateAlias(t *testing.T) {
	cases := map[string]struct {
		name    string
		wantErr *errors.Error
	}{
		"shortest":             {name: "abc"},
		"longest":              {name: strings.Repeat("a", 32)},
		"digits and _":         {name: "shop_42"},
		"too short":            {name: "ab", wantErr: ErrInvalidAliasLength},
		"too long":             {name: strings.Repeat("a", 33), wantErr: ErrInvalidAliasLength},
		"upper case":           {name: "AB_1", wantErr: ErrInvalidAliasCharacters},
		"dash":                 {name: "my-shop", wantErr: ErrInvalidAliasCharacters},
		"non ascii":            {name: "café", wantErr: ErrInvalidAliasCharacters},
		"length checked first": {name: "A", wantErr: ErrInvalidAliasLength},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := ValidateAlias(tc.name)
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestAliasRecordValidate(t *testing.T) {
	valid := func() AliasRecord {
		return AliasRecord{
			Metadata:     &splitpay.Metadata{Schema: 1},
			Owner:        splittest.RandomAddr(t),
			Alias:        "shop",
			Version:      1,
			Active:       true,
			RegisteredAt: 1500000000,
			Serial:       1,
		}
	}

	cases := map[string]struct {
		mod       func(*AliasRecord)
		wantField string
		wantErr   *errors.Error
	}{
		"valid": {
			mod: func(*AliasRecord) {},
		},
		"metadata uri too long": {
			mod:       func(a *AliasRecord) { a.MetadataURI = strings.Repeat("x", 201) },
			wantField: "MetadataURI",
			wantErr:   ErrMetadataTooLong,
		},
		"zero version": {
			mod:       func(a *AliasRecord) { a.Version = 0 },
			wantField: "Version",
			wantErr:   errors.ErrModel,
		},
		"missing owner": {
			mod:       func(a *AliasRecord) { a.Owner = nil },
			wantField: "Owner",
			wantErr:   errors.ErrEmpty,
		},
		"missing serial": {
			mod:       func(a *AliasRecord) { a.Serial = 0 },
			wantField: "Serial",
			wantErr:   errors.ErrModel,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			a := valid()
			tc.mod(&a)
			err := a.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestIdentity(t *testing.T) {
	owner := splittest.RandomAddr(t)
	a := AliasRecord{Owner: owner, Alias: "shop", Version: 1, Serial: 3}
	id := a.Identity()
	assert.Equal(t, id, a.Identity())

	b := a
	b.Version = 2
	if b.Identity().Equals(id) {
		t.Fatal("version change must change the identity")
	}
	c := a
	c.Serial = 4
	if c.Identity().Equals(id) {
		t.Fatal("re-registration must change the identity")
	}
	d := a
	d.Owner = splittest.RandomAddr(t)
	if d.Identity().Equals(id) {
		t.Fatal("owner change must change the identity")
	}
	if id.Equals(Address("shop")) {
		t.Fatal("identity must differ from the storage address")
	}
}

func TestAliasRecordSerialization(t *testing.T) {
	a := AliasRecord{
		Metadata:     &splitpay.Metadata{Schema: 1},
		Owner:        splittest.RandomAddr(t),
		Alias:        "shop",
		MetadataURI:  "ipfs://meta",
		Version:      3,
		Active:       true,
		RegisteredAt: 1500000000,
		Serial:       9,
	}
	raw, err := a.Marshal()
	assert.Nil(t, err)
	var got AliasRecord
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, a, got)
}
