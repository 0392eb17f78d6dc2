package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address of the account",
	RunE:  addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) error {
	kp, err := loadKeyPair()
	if err != nil {
		return err
	}
	defer kp.Destroy()

	fmt.Fprintln(cmd.OutOrStdout(), kp.Address())
	return nil
}
