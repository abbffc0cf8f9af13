package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/app"
	"github.com/iov-one/splitpay/crypto"
	"github.com/iov-one/splitpay/errors"
	"github.com/iov-one/splitpay/store/iavl"
	"github.com/iov-one/splitpay/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

// stateFlags are shared by all commands operating on the local state.
type stateFlags struct {
	home     *string
	logLevel *string
}

func registerStateFlags(fl *flag.FlagSet) stateFlags {
	return stateFlags{
		home: fl.String("home", env("SPLITCLI_HOME", os.Getenv("HOME")+"/.splitpay"),
			"Directory holding the application state. You can use SPLITCLI_HOME environment variable to set it."),
		logLevel: fl.String("log-level", env("SPLITCLI_LOG_LEVEL", "error"),
			"Minimal level of emitted log messages: debug, info, error or none."),
	}
}

// keyFlag returns the private key path flag.
func keyFlag(fl *flag.FlagSet) *string {
	return fl.String("key", env("SPLITCLI_PRIV_KEY", os.Getenv("HOME")+"/.splitpay.priv.key"),
		"Path to the private key file that the request should be signed with. You can use SPLITCLI_PRIV_KEY environment variable to set it.")
}

// openNode opens the state stored in the home directory. Returned function
// must be called to release the database.
func openNode(sf stateFlags) (*app.Node, func(), error) {
	logger, err := newLogger(*sf.logLevel, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(*sf.home, 0700); err != nil {
		return nil, nil, fmt.Errorf("cannot create home directory: %s", err)
	}
	store, err := iavl.NewCommitStore(filepath.Join(*sf.home, "data"), "state")
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open state: %s", err)
	}
	node, err := app.NewNode(store, app.Stack(nil), app.QueryRouter())
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("cannot load state: %s", err)
	}
	node.WithLogger(logger)
	return node, store.Close, nil
}

// newLogger returns a logger writing to given output messages of at least
// given level.
func newLogger(level string, w io.Writer) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	if level == "none" {
		return log.NewNopLogger(), nil
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}

func readPrivateKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}

// execute signs given message with the private key and delivers it to the
// node state. The current signer sequence is read from the state.
func execute(sf stateFlags, keyPath string, output io.Writer, msg splitpay.Msg) (*splitpay.DeliverResult, error) {
	key, err := readPrivateKey(keyPath)
	if err != nil {
		return nil, err
	}
	node, cleanup, err := openNode(sf)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message: %s", err)
	}
	tx, err := app.NewTx(msg)
	if err != nil {
		return nil, err
	}

	var seq int64
	err = node.View(func(db splitpay.ReadOnlyKVStore) error {
		var err error
		seq, err = sigs.NextNonce(db, key.PublicKey().Address())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("cannot get signer sequence: %s", err)
	}
	if err := tx.Sign(key, node.ChainID(), seq); err != nil {
		return nil, err
	}
	res, err := node.Deliver(tx)
	if err != nil {
		code, msg := errors.Public(err, *sf.logLevel == "debug")
		return nil, fmt.Errorf("request failed with code %d: %s", code, msg)
	}
	return res, nil
}

// printData writes the request result data as an upper case hex string.
func printData(output io.Writer, res *splitpay.DeliverResult) error {
	if len(res.Data) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(output, "%X\n", res.Data)
	return err
}

// printJSON writes the value as indented JSON.
func printJSON(output io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(b))
	return err
}

// view opens the state read only and calls fn with it.
func view(sf stateFlags, fn func(db splitpay.ReadOnlyKVStore) error) error {
	node, cleanup, err := openNode(sf)
	if err != nil {
		return err
	}
	defer cleanup()
	return node.View(fn)
}
