package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/x/cash"
	"github.com/iov-one/splitpay/x/route"
	"github.com/iov-one/splitpay/x/settle"
)

// Genesis file format.
//
//	{
//	  "chain_id": "splitpay-local",
//	  "app_state": {
//	    "conf": {"cash": {...}, "route": {...}, "settle": {...}},
//	    "cash": [{"address": "...", "amount": 100000}]
//	  }
//	}
type Genesis struct {
	ChainID  string           `json:"chain_id"`
	AppState splitpay.Options `json:"app_state"`
}

// LoadGenesis reads and decodes a genesis file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode genesis: %s", err)
	}
	if !splitpay.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", gen.ChainID)
	}
	return &gen, nil
}

// schemaPackages lists every package that persists versioned models.
var schemaPackages = []string{"migration", "sigs", "cash", "alias", "route", "settle", "payreq"}

// NewGenesis returns a genesis using the default configuration of every
// package. Admin is allowed to upgrade schemas and update configurations.
func NewGenesis(chainID string, admin splitpay.Address, accounts []cash.GenesisAccount) (*Genesis, error) {
	meta := &splitpay.Metadata{Schema: 1}
	type schema struct {
		Pkg     string `json:"pkg"`
		Version uint32 `json:"ver"`
	}
	schemas := make([]schema, 0, len(schemaPackages))
	for _, pkg := range schemaPackages {
		schemas = append(schemas, schema{Pkg: pkg, Version: 1})
	}
	if accounts == nil {
		accounts = []cash.GenesisAccount{}
	}

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"migration": &migration.Configuration{Metadata: meta, Admin: admin},
			"cash":      &cash.Configuration{Metadata: meta, NativeTicker: "LAMP"},
			"route":     &route.Configuration{Metadata: meta, MaxSplits: route.MaxSplits},
			"settle":    &settle.Configuration{Metadata: meta, MinPayment: 10000},
		},
		"initialize_schema": schemas,
		"cash":              accounts,
	}

	opts := make(splitpay.Options, len(state))
	for key, val := range state {
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "cannot encode %q: %s", key, err)
		}
		opts[key] = raw
	}
	return &Genesis{ChainID: chainID, AppState: opts}, nil
}
