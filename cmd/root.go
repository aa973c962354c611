package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"tokend/logx"
)

var rootCmd = &cobra.Command{
	Use:   "tokend",
	Short: "tokend fungible-token ledger node CLI",
	Long:  "Command line interface for running and managing a tokend fungible-token ledger node.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
