package main

import (
	"os"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/basbook/internal/commands"
)

func main() {
	// Amounts are JSON numbers in CLI output and HTTP responses.
	decimal.MarshalJSONWithoutQuotes = true

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
