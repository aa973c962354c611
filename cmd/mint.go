package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokend/logx"
)

type MintFlags struct {
	NodeURL string
	Sender  string
	Address string
	Amount  string
	Burn    bool
}

var mintFlags MintFlags

var mintCmd = &cobra.Command{
	Use:   "mint [flags]",
	Short: "Mint new tokens (or burn with --burn)",
	Long: `Credits newly minted tokens to an account, growing the total supply.
With --burn the amount is debited instead and the supply shrinks. In the
standard configuration both require the administrator identity.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := mintOrBurn(mintFlags); err != nil {
			logx.Error("MINT CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.PersistentFlags().StringVarP(&mintFlags.NodeURL, "node-url", "u", "localhost:9090", "ledger node URL")
	mintCmd.PersistentFlags().StringVarP(&mintFlags.Sender, "sender", "s", "", "acting identity")
	mintCmd.PersistentFlags().StringVarP(&mintFlags.Address, "address", "a", "", "target account")
	mintCmd.PersistentFlags().StringVarP(&mintFlags.Amount, "amount", "m", "", "amount")
	mintCmd.PersistentFlags().BoolVar(&mintFlags.Burn, "burn", false, "burn instead of mint")
}

func mintOrBurn(flags MintFlags) error {
	if flags.Sender == "" || flags.Address == "" || flags.Amount == "" {
		return fmt.Errorf("--sender, --address and --amount are required")
	}

	method := "token.mint"
	verb := "minted"
	if flags.Burn {
		method = "token.burn"
		verb = "burned"
	}

	client := newRPCClient(flags.NodeURL)
	var result struct {
		Ok bool `json:"ok"`
	}
	err := client.call(method, map[string]string{
		"sender":  flags.Sender,
		"address": flags.Address,
		"amount":  flags.Amount,
	}, &result)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s for %s\n", verb, flags.Amount, flags.Address)
	return nil
}
