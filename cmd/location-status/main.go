// Package main is the entry point for the location-status indicator.
package main

import (
	"os"

	"github.com/location-sb/location-status/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
