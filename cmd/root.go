package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoicegen-backend/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicegen",
	Short: "Invoice generator API server",
	Long: `invoicegen serves the invoice generator REST API: accounts, invoices
with computed totals, a payment status lifecycle, SMS messages to clients
and AI-assisted drafting.

Configuration is read from the environment (and a .env file when present).`,
	Version: version,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
