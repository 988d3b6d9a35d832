package main

import (
	"os"

	"github.com/trustcare/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
