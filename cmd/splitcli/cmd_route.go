package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/split"
	"github.com/iov-one/splitpay/x/route"
)

func cmdInitRoute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create an empty route for an alias. The route address is printed.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
	)
	fl.Parse(args)

	_, err := execute(sf, *keyPathFl, output, &route.InitMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Alias:    *aliasFl,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, route.Address(*aliasFl))
	return err
}

func cmdSetRoute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Replace the splits of an alias route. The route is created if it does not
exist. Weights are basis points and must sum to 10000.

  -splits hex:C1721181E83376EF978AA4A9A38A5E27C08C7BB2:7000,hex:D2D2B51A3DB8C8E3D4E5A6F9B9A1A8C4CAA8F2C1:3000
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
		splitsFl  = flSplits(fl, "splits", "Comma separated list of <address>:<weight> pairs.")
	)
	fl.Parse(args)

	if len(*splitsFl) == 0 {
		flagDie("At least one split is required.")
	}
	_, err := execute(sf, *keyPathFl, output, &route.SetMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Alias:    *aliasFl,
		Splits:   []split.Split(*splitsFl),
	})
	return err
}

func cmdDeleteRoute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Delete the route of an alias. The route deposit is returned to the owner.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
	)
	fl.Parse(args)

	_, err := execute(sf, *keyPathFl, output, &route.DeleteMsg{
		Metadata: &splitpay.Metadata{Schema: 1},
		Alias:    *aliasFl,
	})
	return err
}

func cmdMigrateStaleRoute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Rebind a route left behind by a previous owner of the alias to the current
owner. Only the current alias owner can do this.
`)
		fl.PrintDefaults()
	}
	var (
		sf        = registerStateFlags(fl)
		keyPathFl = keyFlag(fl)
		aliasFl   = fl.String("alias", "", "Alias name.")
		addrFl    = flAddress(fl, "address", "", "Address of the stale route. Defaults to the route address of the alias.")
	)
	fl.Parse(args)

	addr := *addrFl
	if len(addr) == 0 {
		addr = route.Address(*aliasFl)
	}
	_, err := execute(sf, *keyPathFl, output, &route.MigrateStaleMsg{
		Metadata:     &splitpay.Metadata{Schema: 1},
		Alias:        *aliasFl,
		RouteAddress: addr,
	})
	return err
}

func cmdShowRoute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the route of an alias as JSON.
`)
		fl.PrintDefaults()
	}
	var (
		sf      = registerStateFlags(fl)
		aliasFl = fl.String("alias", "", "Alias name.")
	)
	fl.Parse(args)

	return view(sf, func(db splitpay.ReadOnlyKVStore) error {
		r, err := route.NewBucket().Lookup(db, *aliasFl)
		if err != nil {
			return err
		}
		return printJSON(output, r)
	})
}
