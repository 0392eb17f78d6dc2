package proxy

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/transaction"
)

// accountResponse is the account data returned on the API.
type accountResponse struct {
	Address string `json:"address"`
	Nonce   uint64 `json:"nonce"`
	Balance string `json:"balance"`
}

// Account fetches the current nonce and balance of the account. It must be
// called right before building every transaction; the result is never cached.
// A new account has a nonce of zero and is not an error.
func (c *Client) Account(ctx context.Context, addr address.Address) (transaction.Account, error) {
	if addr.IsZero() {
		return transaction.Account{}, fmt.Errorf("%w: empty address", errs.ErrInvalidArgument)
	}

	var resp struct {
		Account accountResponse `json:"account"`
	}
	if err := c.send(ctx, http.MethodGet, "/address/"+addr.Bech32(), nil, &resp, errs.ErrAccountNotFound); err != nil {
		return transaction.Account{}, err
	}

	if resp.Account.Address != "" && resp.Account.Address != addr.Bech32() {
		return transaction.Account{}, fmt.Errorf("%w: node returned account %s", errs.ErrAccountNotFound, resp.Account.Address)
	}

	balance := resp.Account.Balance
	if balance == "" {
		balance = "0"
	}

	c.evHandler("proxy: account: %s: nonce[%d] balance[%s]", addr, resp.Account.Nonce, balance)

	return transaction.Account{
		Address: addr,
		Nonce:   resp.Account.Nonce,
		Balance: balance,
	}, nil
}
