package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	recipient string
	amount    string
)

var offerCmd = &cobra.Command{
	Use:   "offer",
	Short: "Submit escrow offer transactions",
}

var offerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Lock an amount in a new offer to the recipient",
	Args:  cobra.NoArgs,
	RunE:  offerCreateRun,
}

var offerCancelCmd = &cobra.Command{
	Use:   "cancel <offer-id>",
	Short: "Cancel an offer you created",
	Args:  cobra.ExactArgs(1),
	RunE:  offerCancelRun,
}

var offerAcceptCmd = &cobra.Command{
	Use:   "accept <offer-id>",
	Short: "Accept an offer made to you",
	Args:  cobra.ExactArgs(1),
	RunE:  offerAcceptRun,
}

func init() {
	rootCmd.AddCommand(offerCmd)
	offerCmd.AddCommand(offerCreateCmd, offerCancelCmd, offerAcceptCmd)

	offerCreateCmd.Flags().StringVarP(&recipient, "to", "t", "", "Recipient name or address.")
	offerCreateCmd.Flags().StringVarP(&amount, "value", "v", "", "Amount in the smallest denomination.")
	offerCreateCmd.MarkFlagRequired("to")
	offerCreateCmd.MarkFlagRequired("value")
}

func offerCreateRun(cmd *cobra.Command, args []string) error {
	to, err := resolve(recipient)
	if err != nil {
		return err
	}

	return submit(cmd, func(ctx context.Context, s submitter) (string, error) {
		return s.core.CreateOfferWithKey(ctx, s.kp, to.Bech32(), amount)
	})
}

func offerCancelRun(cmd *cobra.Command, args []string) error {
	return submit(cmd, func(ctx context.Context, s submitter) (string, error) {
		return s.core.CancelOfferWithKey(ctx, s.kp, args[0])
	})
}

func offerAcceptRun(cmd *cobra.Command, args []string) error {
	return submit(cmd, func(ctx context.Context, s submitter) (string, error) {
		return s.core.AcceptOfferWithKey(ctx, s.kp, args[0])
	})
}
