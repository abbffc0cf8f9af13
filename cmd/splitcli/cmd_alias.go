package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/x/alias"
)

func cmdRegisterAlias(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Register a new alias owned by the given address. The owner must be the private
key owner. The record deposit is taken from the owner account.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
		ownerFl   = flAddress(fl, "owner", "", "Owner address. Defaults to the private key address.")
		uriFl     = fl.String("metadata", "", "Optional metadata URI.")
	)
	fl.Parse(args)

	owner, err := ownerOrSigner(*ownerFl, *keyPathFl)
	if err != nil {
		return err
	}
	res, err := execute(sf, *keyPathFl, output, &alias.RegisterMsg{
		Metadata:    &splitpay.Metadata{Schema: 1},
		Owner:       owner,
		Alias:       *aliasFl,
		MetadataURI: *uriFl,
	})
	if err != nil {
		return err
	}
	return printData(output, res)
}

func cmdUpdateMetadata(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Replace the metadata URI of an alias. Only the alias owner can do this.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
		uriFl     = fl.String("metadata", "", "New metadata URI.")
	)
	fl.Parse(args)

	_, err := execute(sf, *keyPathFl, output, &alias.UpdateMetadataMsg{
		Metadata:    &splitpay.Metadata{Schema: 1},
		Alias:       *aliasFl,
		MetadataURI: *uriFl,
	})
	return err
}

func cmdDeactivate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Deactivate an alias. Payments to an inactive alias are refused.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
	)
	fl.Parse(args)

	_, err := execute(sf, *keyPathFl, output, &alias.DeactivateMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Alias:    *aliasFl,
	})
	return err
}

func cmdReactivate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Reactivate a previously deactivated alias.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
	)
	fl.Parse(args)

	_, err := execute(sf, *keyPathFl, output, &alias.ReactivateMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Alias:    *aliasFl,
	})
	return err
}

func cmdDeleteAlias(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Delete an alias and release its deposit to the owner. A route bound to the
alias is not removed and becomes stale.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
	)
	fl.Parse(args)

	_, err := execute(sf, *keyPathFl, output, &alias.DeleteMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Alias:    *aliasFl,
	})
	return err
}

func cmdTransferAlias(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Transfer an alias to a new owner. The routing of the alias must be initialized
again by the new owner.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
		ownerFl   = flAddress(fl, "new-owner", "", "Address of the new owner.")
	)
	fl.Parse(args)

	_, err := execute(sf, *keyPathFl, output, &alias.TransferMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Alias:    *aliasFl,
		NewOwner: *ownerFl,
	})
	return err
}

func cmdShowAlias(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the alias record as JSON.
`)
		fl.PrintDefaults()
	}
	var (
		sf      = registerStateFlags(fl)
		aliasFl = fl.String("alias", "", "Alias name.")
	)
	fl.Parse(args)

	return view(sf, func(db splitpay.ReadOnlyKVStore) error {
		rec, err := alias.NewBucket().Lookup(db, *aliasFl)
		if err != nil {
			return err
		}
		return printJSON(output, rec)
	})
}

// ownerOrSigner returns the given address or the private key address if none
// was given.
func ownerOrSigner(addr splitpay.Address, keyPath string) (splitpay.Address, error) {
	if len(addr) != 0 {
		return addr, nil
	}
	key, err := readPrivateKey(keyPath)
	if err != nil {
		return nil, err
	}
	return key.PublicKey().Address(), nil
}
