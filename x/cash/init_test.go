package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/gconf"
	"github.com/iov-one/splitpay/migration"
	"github.com/iov-one/splitpay/splittest/assert"
	"github.com/iov-one/splitpay/store"
)

func gconfSave(db gconf.Store, c *Configuration) error {
	return gconf.Save(db, confPkg, c)
}

func TestGenesis(t *testing.T) {
	const genesis = `{
		"conf": {
			"cash": {
				"metadata": {"schema": 1},
				"native_ticker": "LAMP",
				"record_deposit": 5
			}
		},
		"cash": [
			{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "amount": 1000},
			{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "ticker": "USDC", "amount": 50},
			{"address": "5AE2C58796B0AD48FFE7602EAC3353488C859A2B", "ticker": "LAMP", "amount": 1}
		]
	}`
	var opts splitpay.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	migration.MustInitPkg(db, "cash")
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	conf := mustLoadConf(db)
	assert.Equal(t, "LAMP", conf.NativeTicker)
	assert.Equal(t, uint64(5), conf.RecordDeposit)

	alice, err := splitpay.ParseAddress("E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0")
	assert.Nil(t, err)
	bob, err := splitpay.ParseAddress("5AE2C58796B0AD48FFE7602EAC3353488C859A2B")
	assert.Nil(t, err)

	ctrl := NewController()
	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), got)
	got, err = ctrl.Balance(db, TokenAccountAddress(alice, "USDC"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(50), got)
	got, err = ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), got)
}
