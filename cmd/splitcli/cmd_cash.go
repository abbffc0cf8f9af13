package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/x/cash"
)

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Transfer native value from the private key owner to another address.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		dstFl     = flAddress(fl, "dst", "", "Destination address.")
		amountFl  = fl.Uint64("amount", 0, "Amount to transfer.")
		memoFl    = fl.String("memo", "", "Optional memo.")
	)
	fl.Parse(args)

	src, err := ownerOrSigner(nil, *keyPathFl)
	if err != nil {
		return err
	}
	_, err = execute(sf, *keyPathFl, output, &cash.SendMsg{
		Metadata:    &splitpay.Metadata{Schema: 1},
		Source:      src,
		Destination: *dstFl,
		Amount:      *amountFl,
		Memo:        *memoFl,
	})
	return err
}

func cmdCreateTokenAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Open an empty token sub-account owned by the private key owner. The
sub-account address is printed.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		tickerFl  = fl.String("ticker", "", "Token ticker.")
	)
	fl.Parse(args)

	owner, err := ownerOrSigner(nil, *keyPathFl)
	if err != nil {
		return err
	}
	_, err = execute(sf, *keyPathFl, output, &cash.OpenTokenAccountMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Owner:    owner,
		Ticker:   *tickerFl,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, cash.TokenAccountAddress(owner, *tickerFl))
	return err
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of an address. When a ticker is given, the balance of the
token sub-account of that address is printed instead.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		addrFl    = flAddress(fl, "address", "", "Address to check. Defaults to the private key address.")
		tickerFl  = fl.String("ticker", "", "Optional token ticker.")
	)
	fl.Parse(args)

	addr, err := ownerOrSigner(*addrFl, *keyPathFl)
	if err != nil {
		return err
	}
	if *tickerFl != "" {
		addr = cash.TokenAccountAddress(addr, *tickerFl)
	}
	return view(sf, func(db splitpay.ReadOnlyKVStore) error {
		amount, err := cash.NewController().Balance(db, addr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, amount)
		return err
	})
}
