package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/grailbio/base/log"
)

var errUsage = errors.New("usage error")

func usageErr(msg string) error {
	return fmt.Errorf("%w: %s", errUsage, msg)
}

func exitStatus(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "tcdec: %s\n", err)
	if errors.Is(err, errUsage) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("tcdec: ")
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&decCmd{passwordIn: termReadPassword}, "")
	subcommands.Register(&infoCmd{passwordIn: termReadPassword, stdout: os.Stdout}, "")
	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
