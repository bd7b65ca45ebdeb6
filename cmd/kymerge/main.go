package main

import (
	"os"

	"github.com/kynetic-dev/kymerge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
