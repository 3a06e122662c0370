package main

import (
	"os"

	"github.com/dmitrijs2005/mitteie/internal/client/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
