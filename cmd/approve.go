package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokend/logx"
)

type ApproveFlags struct {
	NodeURL string
	Sender  string
	Spender string
	Amount  string
}

var approveFlags ApproveFlags

var approveCmd = &cobra.Command{
	Use:   "approve [flags]",
	Short: "Grant a spender an allowance on your balance",
	Long: `Sets the allowance the spender may debit from the sender's balance.
A non-zero allowance must be set to zero before it can be changed to a
different non-zero value.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := approveSpender(approveFlags); err != nil {
			logx.Error("APPROVE CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)

	approveCmd.PersistentFlags().StringVarP(&approveFlags.NodeURL, "node-url", "u", "localhost:9090", "ledger node URL")
	approveCmd.PersistentFlags().StringVarP(&approveFlags.Sender, "sender", "s", "", "owner granting the allowance")
	approveCmd.PersistentFlags().StringVarP(&approveFlags.Spender, "spender", "p", "", "spender receiving the allowance")
	approveCmd.PersistentFlags().StringVarP(&approveFlags.Amount, "amount", "a", "", "approved amount")
}

func approveSpender(flags ApproveFlags) error {
	if flags.Sender == "" || flags.Spender == "" || flags.Amount == "" {
		return fmt.Errorf("--sender, --spender and --amount are required")
	}

	client := newRPCClient(flags.NodeURL)
	var result struct {
		Ok bool `json:"ok"`
	}
	err := client.call("token.approve", map[string]string{
		"sender":  flags.Sender,
		"spender": flags.Spender,
		"amount":  flags.Amount,
	}, &result)
	if err != nil {
		return err
	}

	fmt.Printf("approved %s for %s from %s\n", flags.Amount, flags.Spender, flags.Sender)
	return nil
}
