package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// @title Stock Advisor API
// @version 1.0
// @description Daily stock digests, drawdown signals, position ledger and prediction verification.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{
		Use:   "advisor-service",
		Short: "Stock advisory engine: digests, drawdown signals, ledger and verification",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-advisor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, newDigestCmd(), verifyCmd, newSeedStocksCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing advisor-service CLI: %s\n", err)
		os.Exit(1)
	}
}
