package main

import (
	"os"

	"github.com/junyi/aria/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
