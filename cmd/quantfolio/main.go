package main

import (
	"os"

	"github.com/niveshquant/quantfolio/cmd/quantfolio/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
