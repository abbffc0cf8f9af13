package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/splitpay/app"
	"github.com/iov-one/splitpay/x/cash"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize an empty state directory.

If a genesis file is provided, it is loaded as it is. Otherwise a genesis
using the default configuration is created. The owner of the private key
becomes the administrator and is funded with the given amount. The genesis
used is written to the state directory.
`)
		fl.PrintDefaults()
	}
	var (
		sf          = registerStateFlags(fl)
		keyPathFl   = keyFlag(fl)
		genesisFl   = fl.String("genesis", "", "Optional path to a genesis file.")
		chainIDFl   = fl.String("chain-id", "splitpay-local", "Chain ID that all signatures are bound to.")
		amountFl    = fl.Uint64("amount", 1000000000, "Native amount the private key owner is funded with.")
		extraFundFl = flAddressList(fl, "fund", "Optional comma separated list of addresses funded with the same amount.")
	)
	fl.Parse(args)

	var gen *app.Genesis
	if *genesisFl != "" {
		g, err := app.LoadGenesis(*genesisFl)
		if err != nil {
			return err
		}
		gen = g
	} else {
		key, err := readPrivateKey(*keyPathFl)
		if err != nil {
			return err
		}
		admin := key.PublicKey().Address()
		accounts := []cash.GenesisAccount{{Address: admin, Amount: *amountFl}}
		for _, a := range *extraFundFl {
			accounts = append(accounts, cash.GenesisAccount{Address: a, Amount: *amountFl})
		}
		g, err := app.NewGenesis(*chainIDFl, admin, accounts)
		if err != nil {
			return err
		}
		gen = g
	}

	node, cleanup, err := openNode(sf)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := node.InitChain(gen, app.Initializers()); err != nil {
		return fmt.Errorf("cannot initialize: %s", err)
	}

	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize genesis: %s", err)
	}
	if err := ioutil.WriteFile(filepath.Join(*sf.home, "genesis.json"), raw, 0600); err != nil {
		return fmt.Errorf("cannot write genesis: %s", err)
	}
	_, err = fmt.Fprintln(output, gen.ChainID)
	return err
}
