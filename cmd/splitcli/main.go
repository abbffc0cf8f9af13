package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// When a cmd function is called it is given stdin, stdout and command line
// arguments except the program name and this command name. It is the
// responsibility of the command function to parse the arguments. Use os.Stderr
// to write error messages.
//
// Every command that changes the state signs a single request with the
// private key, executes it against the local state directory and commits the
// result. Use the show-* and balance commands to inspect the state.
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"balance":                cmdBalance,
	"close-payment-request":  cmdClosePaymentRequest,
	"create-payment-request": cmdCreatePaymentRequest,
	"create-token-account":   cmdCreateTokenAccount,
	"deactivate":             cmdDeactivate,
	"delete-alias":           cmdDeleteAlias,
	"delete-route":           cmdDeleteRoute,
	"init":                   cmdInit,
	"init-route":             cmdInitRoute,
	"keyaddr":                cmdKeyaddr,
	"keygen":                 cmdKeygen,
	"migrate-stale-route":    cmdMigrateStaleRoute,
	"pay":                    cmdPay,
	"pay-token":              cmdPayToken,
	"reactivate":             cmdReactivate,
	"register-alias":         cmdRegisterAlias,
	"send":                   cmdSend,
	"set-route":              cmdSetRoute,
	"show-alias":             cmdShowAlias,
	"show-requests":          cmdShowRequests,
	"show-route":             cmdShowRoute,
	"transfer-alias":         cmdTransferAlias,
	"update-metadata":        cmdUpdateMetadata,
	"version":                cmdVersion,
}

func main() {
	// Configuration can be provided via a .env file in the working
	// directory. Already set environment variables take precedence.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "cannot load .env file: %s\n", err)
		os.Exit(2)
	}

	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the splitpay application.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash string = "dev"
