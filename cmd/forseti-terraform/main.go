// Package main provides the forseti-terraform CLI.
package main

import (
	"os"

	"github.com/forseti-dev/forseti-terraform/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
