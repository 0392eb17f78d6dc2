package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/nameservice"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the accounts in the key folder",
	RunE:  accountsRun,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func accountsRun(cmd *cobra.Command, args []string) error {
	ns, err := nameservice.New(accountPath)
	if err != nil {
		return err
	}

	type entry struct {
		name string
		addr string
	}

	var entries []entry
	for addr, name := range ns.Copy() {
		entries = append(entries, entry{name: name, addr: addr})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].name < entries[j].name
	})

	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.name, e.addr)
	}
	return nil
}
