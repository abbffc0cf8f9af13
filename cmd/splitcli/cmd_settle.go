package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/x/settle"
)

func cmdPay(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Pay an alias. The amount is split between the route recipients. Targets must
list the route recipients in the route order. The receipt is printed as JSON.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
		amountFl  = fl.Uint64("amount", 0, "Amount to pay.")
		targetsFl = flAddressList(fl, "targets", "Comma separated list of the route recipients.")
		memoFl    = fl.String("memo", "", "Optional memo.")
	)
	fl.Parse(args)

	payer, err := ownerOrSigner(nil, *keyPathFl)
	if err != nil {
		return err
	}
	res, err := execute(sf, *keyPathFl, output, &settle.PayMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Payer:    payer,
		Alias:    *aliasFl,
		Amount:   *amountFl,
		Targets:  []splitpay.Address(*targetsFl),
		Memo:     *memoFl,
	})
	if err != nil {
		return err
	}
	return printReceipt(output, res)
}

func cmdPayToken(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Pay an alias from a token sub-account. Every target must be a token
sub-account of the same ticker owned by the matching route recipient.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
		amountFl  = fl.Uint64("amount", 0, "Amount to pay.")
		tickerFl  = fl.String("ticker", "", "Token ticker.")
		targetsFl = flAddressList(fl, "targets", "Comma separated list of the recipient token sub-accounts.")
	)
	fl.Parse(args)

	payer, err := ownerOrSigner(nil, *keyPathFl)
	if err != nil {
		return err
	}
	res, err := execute(sf, *keyPathFl, output, &settle.PayTokenMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Payer:    payer,
		Alias:    *aliasFl,
		Amount:   *amountFl,
		Ticker:   *tickerFl,
		Targets:  []splitpay.Address(*targetsFl),
	})
	if err != nil {
		return err
	}
	return printReceipt(output, res)
}

func printReceipt(output io.Writer, res *splitpay.DeliverResult) error {
	var r settle.Receipt
	if err := r.Unmarshal(res.Data); err != nil {
		return fmt.Errorf("cannot decode receipt: %s", err)
	}
	return printJSON(output, r)
}
