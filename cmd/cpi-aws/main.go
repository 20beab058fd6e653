package main

import (
	"os"

	"github.com/fleetops/cpi-aws/cmd/cpi-aws/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
