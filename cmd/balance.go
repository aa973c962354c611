package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokend/logx"
)

type BalanceFlags struct {
	NodeURL string
	Address string
	Owner   string
	Spender string
}

var balanceFlags BalanceFlags

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Query an account balance",
	Long: `Queries the balance of an account, or with --owner and --spender the
current allowance between two accounts. Absent accounts report zero.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := queryBalance(balanceFlags); err != nil {
			logx.Error("BALANCE CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.PersistentFlags().StringVarP(&balanceFlags.NodeURL, "node-url", "u", "localhost:9090", "ledger node URL")
	balanceCmd.PersistentFlags().StringVarP(&balanceFlags.Address, "address", "a", "", "account address")
	balanceCmd.PersistentFlags().StringVar(&balanceFlags.Owner, "owner", "", "allowance owner address")
	balanceCmd.PersistentFlags().StringVar(&balanceFlags.Spender, "spender", "", "allowance spender address")
}

func queryBalance(flags BalanceFlags) error {
	client := newRPCClient(flags.NodeURL)

	if flags.Owner != "" || flags.Spender != "" {
		var result struct {
			Owner     string `json:"owner"`
			Spender   string `json:"spender"`
			Allowance string `json:"allowance"`
		}
		err := client.call("token.getallowance", map[string]string{
			"owner":   flags.Owner,
			"spender": flags.Spender,
		}, &result)
		if err != nil {
			return err
		}
		fmt.Printf("allowance(%s, %s) = %s\n", result.Owner, result.Spender, result.Allowance)
		return nil
	}

	if flags.Address == "" {
		return fmt.Errorf("--address is required")
	}

	var result struct {
		Address string `json:"address"`
		Balance string `json:"balance"`
	}
	err := client.call("token.getbalance", map[string]string{"address": flags.Address}, &result)
	if err != nil {
		return err
	}
	fmt.Printf("balance(%s) = %s\n", result.Address, result.Balance)
	return nil
}
