package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qcbit/escrow-gateway/business/core/offer"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/signature"
)

type submitter struct {
	core *offer.Core
	kp   *signature.KeyPair
}

// submit loads the account key and runs the operation, printing the
// transaction hash. The key is destroyed by the core.
func submit(cmd *cobra.Command, fn func(ctx context.Context, s submitter) (string, error)) error {
	kp, err := loadKeyPair()
	if err != nil {
		return err
	}

	core, log, err := newCore()
	if err != nil {
		kp.Destroy()
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	hash, err := fn(ctx, submitter{core: core, kp: kp})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
