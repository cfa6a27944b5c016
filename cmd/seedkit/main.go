// Command seedkit loads and purges fixture data.
//
//	seedkit load --purge --tag demo
//	seedkit purge --backend orm --truncate
//	seedkit plan
package main

import (
	"fmt"
	"os"

	"github.com/kbukum/seedkit/errors"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitConfigError = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seedkit:", err)
		if errors.IsConfiguration(err) {
			return exitConfigError
		}
		return exitFailure
	}
	return exitOK
}
