package cmd

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"tokend/logx"
)

type KeygenFlags struct {
	OutFile string
}

var keygenFlags KeygenFlags

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an account keypair",
	Long: `Generates an Ed25519 keypair and prints the base58 account address.
The address is what the ledger uses as account identity; signing and
authenticating requests with the private key is up to the hosting
environment.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := generateKeypair(keygenFlags); err != nil {
			logx.Error("KEYGEN", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)

	keygenCmd.PersistentFlags().StringVarP(&keygenFlags.OutFile, "out", "o", "", "write the private key (hex) to this file instead of stdout")
}

func generateKeypair(flags KeygenFlags) error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("could not generate keypair: %w", err)
	}

	address := base58.Encode(pub)
	fmt.Println("address:", address)

	privHex := hex.EncodeToString(priv)
	if flags.OutFile == "" {
		fmt.Println("private key:", privHex)
		return nil
	}
	if err := os.WriteFile(flags.OutFile, []byte(privHex), 0600); err != nil {
		return fmt.Errorf("could not write private key file: %w", err)
	}
	fmt.Println("private key written to", flags.OutFile)
	return nil
}
