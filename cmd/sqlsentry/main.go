// Package main is the entry point for the sqlsentry CLI.
package main

import (
	"os"

	"github.com/sqlsentry/sqlsentry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
