// Package main provides the martlint CLI.
package main

import (
	"os"

	"github.com/ryandataengineergit/martlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
