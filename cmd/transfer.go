package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokend/logx"
)

type TransferFlags struct {
	NodeURL string
	Sender  string
	From    string
	To      string
	Amount  string
}

var transferFlags TransferFlags

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer [flags]",
	Short: "Transfer tokens to another account",
	Long: `Sends tokens from one account to another. The sender is the acting
identity; when --from is omitted the sender spends their own balance,
otherwise the sender must hold a sufficient allowance from the owner
(or be the administrator).

Examples:
  # Spend your own balance
  tokend transfer -s alice -t bob -a 1_000

  # Spend an allowance granted by alice
  tokend transfer -s bob --from alice -t carol -a 250`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := transferToken(transferFlags); err != nil {
			logx.Error("TRANSFER CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.PersistentFlags().StringVarP(&transferFlags.NodeURL, "node-url", "u", "localhost:9090", "ledger node URL")
	transferCmd.PersistentFlags().StringVarP(&transferFlags.Sender, "sender", "s", "", "acting identity")
	transferCmd.PersistentFlags().StringVar(&transferFlags.From, "from", "", "owner account to debit (defaults to sender)")
	transferCmd.PersistentFlags().StringVarP(&transferFlags.To, "to", "t", "", "recipient account")
	transferCmd.PersistentFlags().StringVarP(&transferFlags.Amount, "amount", "a", "", "amount")
}

func transferToken(flags TransferFlags) error {
	if flags.Sender == "" || flags.To == "" || flags.Amount == "" {
		return fmt.Errorf("--sender, --to and --amount are required")
	}
	from := flags.From
	if from == "" {
		from = flags.Sender
	}

	client := newRPCClient(flags.NodeURL)
	var result struct {
		Ok bool `json:"ok"`
	}
	err := client.call("token.transfer", map[string]string{
		"sender": flags.Sender,
		"from":   from,
		"to":     flags.To,
		"amount": flags.Amount,
	}, &result)
	if err != nil {
		return err
	}

	fmt.Printf("transferred %s: %s -> %s\n", flags.Amount, from, flags.To)
	return nil
}
