package proxy

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/transaction"
)

// SendTransaction submits the signed transaction and returns the hash the
// node assigned to it. A transaction must be submitted at most once; a retry
// after ErrNetworkUnavailable needs a fresh nonce and a new signature.
func (c *Client) SendTransaction(ctx context.Context, tx transaction.SignedTx) (string, error) {
	if len(tx.Signature) == 0 {
		return "", fmt.Errorf("%w: transaction is not signed", errs.ErrInvalidArgument)
	}

	var resp struct {
		TxHash string `json:"txHash"`
	}
	if err := c.send(ctx, http.MethodPost, "/transaction/send", tx.Frontend(), &resp, errs.ErrRejected); err != nil {
		return "", err
	}

	if resp.TxHash == "" {
		return "", errs.NewRemoteError(errs.ErrRejected, "", "node returned an empty transaction hash")
	}

	c.evHandler("proxy: send transaction: %s: hash[%s]", tx, resp.TxHash)

	return resp.TxHash, nil
}
