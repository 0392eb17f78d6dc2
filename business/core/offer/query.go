package offer

import (
	"context"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/calldata"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy"
)

// GetOffers returns the offers created by the user.
func (c *Core) GetOffers(ctx context.Context, userAddress string) (proxy.QueryResult, error) {
	call, err := c.contract.addressCall(c.contract.UserOffersFn, userAddress)
	if err != nil {
		return proxy.QueryResult{}, err
	}

	return c.query(ctx, call)
}

// GetIncomingOffers returns the active offers made to the user.
func (c *Core) GetIncomingOffers(ctx context.Context, userAddress string) (proxy.QueryResult, error) {
	call, err := c.contract.addressCall(c.contract.IncomingOffersFn, userAddress)
	if err != nil {
		return proxy.QueryResult{}, err
	}

	return c.query(ctx, call)
}

// GetActiveOffers returns every active offer.
func (c *Core) GetActiveOffers(ctx context.Context) (proxy.QueryResult, error) {
	call, err := calldata.New(c.contract.ActiveOffersFn)
	if err != nil {
		return proxy.QueryResult{}, err
	}

	return c.query(ctx, call)
}

// GetOffer returns a single offer by id.
func (c *Core) GetOffer(ctx context.Context, offerID string) (proxy.QueryResult, error) {
	call, err := c.contract.idCall(c.contract.OfferFn, offerID)
	if err != nil {
		return proxy.QueryResult{}, err
	}

	return c.query(ctx, call)
}

// query runs a read only call against the contract.
func (c *Core) query(ctx context.Context, call calldata.Call) (proxy.QueryResult, error) {
	res, err := c.node.QueryContract(ctx, proxy.Query{
		Contract: c.contract.Address,
		Call:     call,
	})

	queries.WithLabelValues(call.Function, statusLabel(err)).Inc()

	if err != nil {
		c.log.Infow("query", "status", "failed", "function", call.Function, "ERROR", err)
		return proxy.QueryResult{}, err
	}

	return res, nil
}
