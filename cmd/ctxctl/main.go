package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/contextops/ctxctl/internal/cli"
	"github.com/contextops/ctxctl/internal/policy"
)

var version = "dev"

// Reserved exit codes so automated callers can tell misconfiguration apart
// from a failed action.
const (
	exitFailure       = 1
	exitPolicyMissing = 2
	exitPolicyInvalid = 3
)

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		switch {
		case errors.Is(err, policy.ErrNotFound):
			os.Exit(exitPolicyMissing)
		case errors.Is(err, policy.ErrInvalid):
			os.Exit(exitPolicyInvalid)
		}
		os.Exit(exitFailure)
	}
}
