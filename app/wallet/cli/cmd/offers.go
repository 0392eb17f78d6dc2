package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy"
)

var (
	incoming bool
	active   bool
	offerID  string
)

var offersCmd = &cobra.Command{
	Use:   "offers [name|address]",
	Short: "Query the escrow contract for offers",
	Long: `Query the escrow contract for offers.

Without flags the offers created by the account are listed. Use --incoming
for the offers made to the account, --active for every active offer, and
--id for a single offer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: offersRun,
}

func init() {
	rootCmd.AddCommand(offersCmd)
	offersCmd.Flags().BoolVarP(&incoming, "incoming", "i", false, "List the active offers made to the account.")
	offersCmd.Flags().BoolVar(&active, "active", false, "List every active offer.")
	offersCmd.Flags().StringVar(&offerID, "id", "", "Show a single offer.")
	offersCmd.MarkFlagsMutuallyExclusive("incoming", "active", "id")
}

func offersRun(cmd *cobra.Command, args []string) error {
	core, log, err := newCore()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var res proxy.QueryResult
	switch {
	case active:
		res, err = core.GetActiveOffers(ctx)

	case offerID != "":
		res, err = core.GetOffer(ctx, offerID)

	default:
		user, uerr := userAddress(args)
		if uerr != nil {
			return uerr
		}

		if incoming {
			res, err = core.GetIncomingOffers(ctx, user)
		} else {
			res, err = core.GetOffers(ctx, user)
		}
	}
	if err != nil {
		return err
	}

	for _, v := range res.Hex() {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// userAddress returns the address named by the argument, or the account's
// own address when there is none.
func userAddress(args []string) (string, error) {
	if len(args) == 1 {
		addr, err := resolve(args[0])
		if err != nil {
			return "", err
		}
		return addr.Bech32(), nil
	}

	kp, err := loadKeyPair()
	if err != nil {
		return "", err
	}
	defer kp.Destroy()

	return kp.Address().Bech32(), nil
}
