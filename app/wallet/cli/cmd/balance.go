package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/nameservice"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [name|address]",
	Short: "Print the nonce and balance of an account",
	Args:  cobra.MaximumNArgs(1),
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	var bech string
	switch len(args) {
	case 0:
		kp, err := loadKeyPair()
		if err != nil {
			return err
		}
		bech = kp.Address().Bech32()
		kp.Destroy()

	default:
		addr, err := resolve(args[0])
		if err != nil {
			return err
		}
		bech = addr.Bech32()
	}

	core, log, err := newCore()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	acc, err := core.Account(ctx, bech)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "address: %s\nnonce:   %d\nbalance: %s\n", acc.Address, acc.Nonce, acc.Balance)
	return nil
}

// resolve parses an address or looks up an account name in the key folder.
func resolve(nameOrAddress string) (address.Address, error) {
	if addr, err := address.Parse(nameOrAddress); err == nil {
		return addr, nil
	}

	ns, err := nameservice.New(accountPath)
	if err != nil {
		return address.Address{}, err
	}

	return ns.Resolve(nameOrAddress)
}
