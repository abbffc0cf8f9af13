package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/x/payreq"
)

func cmdCreatePaymentRequest(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Ask the owner of an alias for a payment. The request deposit is taken from
the sender and returned when the request is closed.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Recipient alias name.")
		amountFl  = fl.Uint64("amount", 0, "Requested amount.")
		conceptFl = fl.String("concept", "", "Short description of the request.")
	)
	fl.Parse(args)

	sender, err := ownerOrSigner(nil, *keyPathFl)
	if err != nil {
		return err
	}
	_, err = execute(sf, *keyPathFl, output, &payreq.CreateMsg{
		Metadata:       &splitpay.Metadata{Schema: 1},
		Sender:         sender,
		RecipientAlias: *aliasFl,
		Amount:         *amountFl,
		Concept:        *conceptFl,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, payreq.Address(*aliasFl, sender))
	return err
}

func cmdClosePaymentRequest(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Close a payment request. Either the sender or the alias owner can close it.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Recipient alias name.")
		senderFl  = flAddress(fl, "sender", "", "Request sender. Defaults to the private key address.")
	)
	fl.Parse(args)

	sender, err := ownerOrSigner(*senderFl, *keyPathFl)
	if err != nil {
		return err
	}
	_, err = execute(sf, *keyPathFl, output, &payreq.CloseMsg{
		Metadata:       &splitpay.Metadata{Schema: 1},
		Sender:         sender,
		RecipientAlias: *aliasFl,
	})
	return err
}

func cmdShowRequests(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print all open payment requests of an alias as JSON.
`)
		fl.PrintDefaults()
	}
	var (
		sf      = registerStateFlags(fl)
		aliasFl = fl.String("alias", "", "Recipient alias name.")
	)
	fl.Parse(args)

	return view(sf, func(db splitpay.ReadOnlyKVStore) error {
		reqs, err := payreq.NewBucket().ByAlias(db, *aliasFl)
		if err != nil {
			return err
		}
		if reqs == nil {
			reqs = []payreq.PaymentRequest{}
		}
		return printJSON(output, reqs)
	})
}
