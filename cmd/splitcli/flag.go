package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iov-one/splitpay"
	"github.com/iov-one/splitpay/split"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *splitpay.Address {
	var a splitpay.Address
	if defaultVal != "" {
		var err error
		a, err = splitpay.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q splitpay.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// flAddressList returns a comma separated list of addresses.
func flAddressList(fl *flag.FlagSet, name, usage string) *addressList {
	var l addressList
	fl.Var(&l, name, usage)
	return &l
}

type addressList []splitpay.Address

func (l addressList) String() string {
	chunks := make([]string, len(l))
	for i, a := range l {
		chunks[i] = a.String()
	}
	return strings.Join(chunks, ",")
}

func (l *addressList) Set(raw string) error {
	var list addressList
	for _, chunk := range strings.Split(raw, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			return fmt.Errorf("empty address in %q", raw)
		}
		a, err := splitpay.ParseAddress(chunk)
		if err != nil {
			return err
		}
		list = append(list, a)
	}
	*l = list
	return nil
}

// flSplits returns a list of splits declared as comma separated
// <address>:<basis points> pairs, for example "hex:C1...:7000,hex:D2...:3000".
func flSplits(fl *flag.FlagSet, name, usage string) *splitList {
	var l splitList
	fl.Var(&l, name, usage)
	return &l
}

type splitList []split.Split

func (l splitList) String() string {
	chunks := make([]string, len(l))
	for i, s := range l {
		chunks[i] = fmt.Sprintf("%s:%d", s.Recipient, s.Weight)
	}
	return strings.Join(chunks, ",")
}

func (l *splitList) Set(raw string) error {
	var list splitList
	for _, chunk := range strings.Split(raw, ",") {
		chunk = strings.TrimSpace(chunk)
		sep := strings.LastIndex(chunk, ":")
		if sep < 0 {
			return fmt.Errorf("invalid split %q, want <address>:<weight>", chunk)
		}
		recipient, err := splitpay.ParseAddress(chunk[:sep])
		if err != nil {
			return fmt.Errorf("invalid split %q recipient: %s", chunk, err)
		}
		weight, err := strconv.ParseUint(chunk[sep+1:], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid split %q weight: %s", chunk, err)
		}
		list = append(list, split.Split{Recipient: recipient, Weight: uint16(weight)})
	}
	*l = list
	return nil
}

// flHex returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flHex(fl *flag.FlagSet, name, defaultVal, usage string) *[]byte {
	var b []byte
	if defaultVal != "" {
		var err error
		b, err = hex.DecodeString(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q hex encoded flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fb := (*flagbyte)(&b)
	fl.Var(fb, name, usage)
	return &b
}

type flagbyte []byte

func (b flagbyte) String() string {
	return hex.EncodeToString(b)
}

func (b *flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}

// flagDie terminates the program when a flag value is invalid.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description+"\n", args...)
	os.Exit(2)
}
