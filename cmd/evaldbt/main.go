// Package main is the entrypoint for the evaldbt CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/evaldbt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
