package transaction

import (
	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
)

// Account represents the state of an account on the ledger at the time it
// was fetched. A new account has a nonce of zero.
type Account struct {
	Address address.Address `json:"address"`
	Nonce   uint64          `json:"nonce"`
	Balance string          `json:"balance"`
}
