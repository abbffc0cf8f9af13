package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/splitpay/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

If a seed is provided, the key is derived from it using the SLIP-0010
derivation path. Otherwise a random key is generated.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = keyFlag(fl)
		seedFl    = flHex(fl, "seed", "", "Optional hex encoded seed that the key is derived from.")
		pathFl    = fl.String("path", "m/44'/234'/0'", "Derivation path used together with the seed.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first to ensure we do not delete
		// such crucial data by an accident (bad command usage).
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	key, err := keygen(*seedFl, *pathFl)
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.Ed25519); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

// keygen returns a key derived from the seed or a random one if no seed is
// given.
func keygen(seed []byte, path string) (*crypto.PrivateKey, error) {
	if len(seed) == 0 {
		return crypto.GenPrivKeyEd25519(), nil
	}
	key, err := crypto.DeriveKey(seed, path)
	if err != nil {
		return nil, fmt.Errorf("cannot derive key: %s", err)
	}
	return key, nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out a hex-address associated with your private key. If a human readable
part is provided, the bech32 form is printed as well.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = keyFlag(fl)
		hrpFl     = fl.String("hrp", "", "Optional bech32 human readable part, for example 'split'.")
		pubFl     = fl.Bool("pubkey", false, "Print the hex encoded public key as well.")
	)
	fl.Parse(args)

	key, err := readPrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	if _, err := fmt.Fprintln(output, addr); err != nil {
		return err
	}
	if *hrpFl != "" {
		bech, err := addr.Bech32(*hrpFl)
		if err != nil {
			return fmt.Errorf("cannot serialize to bech32: %s", err)
		}
		if _, err := fmt.Fprintln(output, bech); err != nil {
			return err
		}
	}
	if *pubFl {
		_, err = fmt.Fprintln(output, hex.EncodeToString(key.PublicKey().Ed25519))
	}
	return err
}
