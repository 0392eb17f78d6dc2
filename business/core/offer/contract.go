package offer

import (
	"errors"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/argument"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/calldata"
)

// Contract describes the escrow contract and the names of its endpoints.
// Names are configurable because deployments of the contract disagree on them.
type Contract struct {
	Address          address.Address
	CreateFn         string
	CancelFn         string
	AcceptFn         string
	UserOffersFn     string
	IncomingOffersFn string
	ActiveOffersFn   string
	OfferFn          string
}

// DefaultContract returns the endpoint names of the deployed contract.
func DefaultContract(addr address.Address) Contract {
	return Contract{
		Address:          addr,
		CreateFn:         "create",
		CancelFn:         "cancelOffer",
		AcceptFn:         "acceptOffer",
		UserOffersFn:     "getUserActiveOffers",
		IncomingOffersFn: "getUserIncomingActiveOffers",
		ActiveOffersFn:   "getActiveOffers",
		OfferFn:          "getOffer",
	}
}

// Validate checks the contract has an address and every endpoint name.
func (c Contract) Validate() error {
	if c.Address.IsZero() {
		return errors.New("address is required")
	}

	for _, fn := range []string{c.CreateFn, c.CancelFn, c.AcceptFn, c.UserOffersFn, c.IncomingOffersFn, c.ActiveOffersFn, c.OfferFn} {
		if fn == "" {
			return errors.New("every endpoint name is required")
		}
	}

	return nil
}

// createCall builds create(recipient: Address).
func (c Contract) createCall(recipient string) (calldata.Call, error) {
	return c.addressCall(c.CreateFn, recipient)
}

// addressCall builds a call taking a single address argument.
func (c Contract) addressCall(fn string, addr string) (calldata.Call, error) {
	arg, err := argument.AddressString(addr)
	if err != nil {
		return calldata.Call{}, err
	}

	return calldata.New(fn, arg)
}

// idCall builds a call taking a single offer id argument.
func (c Contract) idCall(fn string, offerID string) (calldata.Call, error) {
	arg, err := argument.ID(offerID)
	if err != nil {
		return calldata.Call{}, err
	}

	return calldata.New(fn, arg)
}
