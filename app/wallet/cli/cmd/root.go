// Package cmd contains the wallet commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qcbit/escrow-gateway/business/core/offer"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/signature"
	"github.com/qcbit/escrow-gateway/foundation/logger"
)

var (
	accountName  string
	accountPath  string
	proxyURL     string
	chainID      string
	contractBech string
	timeout      time.Duration
)

const keyExtension = ".pem"

var rootCmd = &cobra.Command{
	Use:           "wallet",
	Short:         "Escrow wallet",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func init() {
	def := network.Default()

	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private", "Name of the key file without the extension.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Folder holding the key files.")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "u", "https://devnet-gateway.multiversx.com", "URL of the ledger proxy.")
	rootCmd.PersistentFlags().StringVar(&chainID, "chain", def.ChainID, "Chain id of the network.")
	rootCmd.PersistentFlags().StringVar(&contractBech, "contract", "erd1qlp7560vds526xgkl88d4s0atq67yts6l86vgrv3m4w5xdu8rprssdglu0", "Address of the escrow contract.")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout of a ledger call.")
}

func getPrivateKeyPath() string {
	return filepath.Join(accountPath, accountName+keyExtension)
}

func loadKeyPair() (*signature.KeyPair, error) {
	kp, err := signature.LoadPEM(getPrivateKeyPath())
	if err != nil {
		return nil, fmt.Errorf("loading key for account %q: %w", accountName, err)
	}
	return kp, nil
}

// newCore constructs the offer core talking directly to the ledger proxy.
// Logs go to stderr so command output stays parsable.
func newCore() (*offer.Core, *zap.SugaredLogger, error) {
	log, err := logger.New("WALLET", "stderr")
	if err != nil {
		return nil, nil, err
	}

	client, err := proxy.New(proxy.Config{
		URL:     proxyURL,
		Timeout: timeout,
		EvHandler: func(v string, args ...any) {
			log.Debugf(v, args...)
		},
	})
	if err != nil {
		return nil, nil, err
	}

	contract, err := address.Parse(contractBech)
	if err != nil {
		return nil, nil, fmt.Errorf("contract: %w", err)
	}

	net := network.Default()
	net.ChainID = chainID

	core, err := offer.NewCore(offer.Config{
		Log:      log,
		Node:     client,
		Network:  net,
		Contract: offer.DefaultContract(contract),
	})
	if err != nil {
		return nil, nil, err
	}

	return core, log, nil
}
