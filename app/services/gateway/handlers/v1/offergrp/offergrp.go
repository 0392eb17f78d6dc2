// Package offergrp maintains the group of handlers for escrow offer access.
package offergrp

import (
	"context"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/qcbit/escrow-gateway/business/core/offer"
	"github.com/qcbit/escrow-gateway/business/sys/validate"
	v1 "github.com/qcbit/escrow-gateway/business/web/v1"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/nameservice"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy"
	"github.com/qcbit/escrow-gateway/foundation/web"
)

// Handlers manages the set of offer endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Core *offer.Core
	NS   *nameservice.NameService
}

// CreateOffer builds, signs, and submits a create call.
func (h Handlers) CreateOffer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req createOffer
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	hash, err := h.Core.CreateOffer(ctx, req.SenderPrivateKey, req.Recipient, req.Amount)
	if err != nil {
		return ledgerError(err)
	}

	h.Log.Infow("create offer", "traceid", web.GetTraceID(ctx), "recipient", req.Recipient, "amount", req.Amount, "txhash", hash)

	return web.Respond(ctx, w, txResult{TxHash: hash}, http.StatusOK)
}

// CancelOffer builds, signs, and submits a cancel call.
func (h Handlers) CancelOffer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req offerAction
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	hash, err := h.Core.CancelOffer(ctx, req.SenderPrivateKey, req.OfferID)
	if err != nil {
		return ledgerError(err)
	}

	h.Log.Infow("cancel offer", "traceid", web.GetTraceID(ctx), "offerid", req.OfferID, "txhash", hash)

	return web.Respond(ctx, w, txResult{TxHash: hash}, http.StatusOK)
}

// AcceptOffer builds, signs, and submits an accept call.
func (h Handlers) AcceptOffer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req offerAction
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	hash, err := h.Core.AcceptOffer(ctx, req.SenderPrivateKey, req.OfferID)
	if err != nil {
		return ledgerError(err)
	}

	h.Log.Infow("accept offer", "traceid", web.GetTraceID(ctx), "offerid", req.OfferID, "txhash", hash)

	return web.Respond(ctx, w, txResult{TxHash: hash}, http.StatusOK)
}

// GetOffers returns the offers created by the user.
func (h Handlers) GetOffers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	res, err := h.Core.GetOffers(ctx, web.Param(r, "userAddress"))
	return h.respondQuery(ctx, w, res, err)
}

// GetIncomingOffers returns the active offers made to the user.
func (h Handlers) GetIncomingOffers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	res, err := h.Core.GetIncomingOffers(ctx, web.Param(r, "userAddress"))
	return h.respondQuery(ctx, w, res, err)
}

// GetActiveOffers returns every active offer.
func (h Handlers) GetActiveOffers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	res, err := h.Core.GetActiveOffers(ctx)
	return h.respondQuery(ctx, w, res, err)
}

// GetOffer returns a single offer.
func (h Handlers) GetOffer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	res, err := h.Core.GetOffer(ctx, web.Param(r, "offerId"))
	return h.respondQuery(ctx, w, res, err)
}

// Account returns the nonce and balance of an account.
func (h Handlers) Account(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acc, err := h.Core.Account(ctx, web.Param(r, "address"))
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, toAccount(acc, h.name(acc.Address)), http.StatusOK)
}

// Accounts returns the accounts known to the name service.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accounts := []account{}
	if h.NS != nil {
		for bech, name := range h.NS.Copy() {
			acc, err := h.Core.Account(ctx, bech)
			if err != nil {
				return ledgerError(err)
			}
			accounts = append(accounts, toAccount(acc, name))
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})

	return web.Respond(ctx, w, accounts, http.StatusOK)
}

// name returns the name service name of the address, if it has one.
func (h Handlers) name(addr address.Address) string {
	if h.NS == nil {
		return ""
	}

	name := h.NS.Lookup(addr)
	if name == addr.Bech32() {
		return ""
	}
	return name
}

func (h Handlers) respondQuery(ctx context.Context, w http.ResponseWriter, res proxy.QueryResult, err error) error {
	if err != nil {
		return ledgerError(err)
	}

	return web.Respond(ctx, w, toQueryResult(res), http.StatusOK)
}

// ledgerError attaches the status for the error's kind when it has one.
func ledgerError(err error) error {
	if reqErr := v1.NewLedgerError(err); reqErr != nil {
		return reqErr
	}
	return err
}
