// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/qcbit/escrow-gateway/app/services/gateway/handlers/v1/offergrp"
	"github.com/qcbit/escrow-gateway/business/core/offer"
	"github.com/qcbit/escrow-gateway/business/web/v1/mid"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/nameservice"
	"github.com/qcbit/escrow-gateway/foundation/ratelimit"
	"github.com/qcbit/escrow-gateway/foundation/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	Core    *offer.Core
	NS      *nameservice.NameService
	Limiter *ratelimit.Limiter
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	ogh := offergrp.Handlers{
		Log:  cfg.Log,
		Core: cfg.Core,
		NS:   cfg.NS,
	}

	limit := mid.RateLimit(cfg.Limiter)

	app.Handle(http.MethodPost, version, "/createOffer", ogh.CreateOffer, limit)
	app.Handle(http.MethodPost, version, "/cancelOffer", ogh.CancelOffer, limit)
	app.Handle(http.MethodPost, version, "/acceptOffer", ogh.AcceptOffer, limit)
	app.Handle(http.MethodGet, version, "/getOffers/:userAddress", ogh.GetOffers)
	app.Handle(http.MethodGet, version, "/getIncomingOffers/:userAddress", ogh.GetIncomingOffers)
	app.Handle(http.MethodGet, version, "/getActiveOffers", ogh.GetActiveOffers)
	app.Handle(http.MethodGet, version, "/getOffer/:offerId", ogh.GetOffer)
	app.Handle(http.MethodGet, version, "/accounts", ogh.Accounts)
	app.Handle(http.MethodGet, version, "/accounts/:address", ogh.Account)
}
