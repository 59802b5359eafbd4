// Command keygen prints a fresh Ed25519 key pair in the form read by the
// API configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/spec-kit/helpdesk-service/internal/auth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var export bool
	flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
	flagSet.BoolVar(&export, "export", false, "prefix lines with 'export' for shell eval")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	_, privateKey, publicKey, err := auth.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generate key pair: %w", err)
	}

	prefix := ""
	if export {
		prefix = "export "
	}
	fmt.Printf("%sAUTH_PRIVATE_KEY=%s\n", prefix, privateKey)
	fmt.Printf("%sAUTH_PUBLIC_KEY=%s\n", prefix, publicKey)
	return nil
}
