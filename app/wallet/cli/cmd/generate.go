package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/signature"
)

var (
	fromMnemonic bool
	passphrase   string
	index        uint32
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key file for the account",
	Long: `Generate a new key file for the account.

With --mnemonic the key is derived from the mnemonic read from stdin instead
of being random.`,
	RunE: generateRun,
}

var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Print a new 24 word mnemonic",
	RunE:  mnemonicRun,
}

func init() {
	rootCmd.AddCommand(generateCmd, mnemonicCmd)
	generateCmd.Flags().BoolVarP(&fromMnemonic, "mnemonic", "m", false, "Derive the key from a mnemonic read from stdin.")
	generateCmd.Flags().StringVar(&passphrase, "passphrase", "", "Mnemonic passphrase.")
	generateCmd.Flags().Uint32VarP(&index, "index", "i", 0, "Account index to derive.")
}

func mnemonicRun(cmd *cobra.Command, args []string) error {
	mnemonic, err := signature.NewMnemonic()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), mnemonic)
	return nil
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := getPrivateKeyPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %s already exists", path)
	}

	if err := os.MkdirAll(accountPath, 0700); err != nil {
		return err
	}

	kp, err := newKeyPair(cmd)
	if err != nil {
		return err
	}
	defer kp.Destroy()

	if err := signature.SavePEM(path, kp); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), kp.Address())
	return nil
}

func newKeyPair(cmd *cobra.Command) (*signature.KeyPair, error) {
	if !fromMnemonic {
		return signature.GenerateKey()
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return signature.FromMnemonic(line, passphrase, index)
}
