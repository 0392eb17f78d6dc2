// Package argument encodes typed values into the hex form the ledger's
// virtual machine expects for smart contract arguments. Every encoding is
// lowercase hex without a 0x prefix.
package argument

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

// Address encodes an address as its fixed length raw bytes.
func Address(a address.Address) string {
	return common.Bytes2Hex(a.Bytes())
}

// AddressString parses a bech32 address and encodes it.
func AddressString(bech string) (string, error) {
	a, err := address.Parse(bech)
	if err != nil {
		return "", err
	}
	return Address(a), nil
}

// BigUint encodes a non-negative integer as minimal big endian hex digits.
// Zero encodes as the empty string.
func BigUint(v *big.Int) (string, error) {
	if v == nil || v.Sign() < 0 {
		return "", fmt.Errorf("%w: value must be a non-negative integer", errs.ErrInvalidArgument)
	}

	if v.Sign() == 0 {
		return "", nil
	}

	return v.Text(16), nil
}

// Uint64 encodes an unsigned integer the same way as BigUint.
func Uint64(v uint64) string {
	s, _ := BigUint(new(big.Int).SetUint64(v))
	return s
}

// ID parses a numeric identifier given in decimal (or 0x prefixed hex) and
// encodes it the same way as BigUint.
func ID(s string) (string, error) {
	v, err := ParseUint(s)
	if err != nil {
		return "", err
	}
	return BigUint(v)
}

// Bytes encodes an opaque byte string.
func Bytes(b []byte) string {
	return common.Bytes2Hex(b)
}

// String encodes the UTF-8 bytes of a string.
func String(s string) string {
	return common.Bytes2Hex([]byte(s))
}

// ParseUint parses a non-negative decimal or 0x prefixed hex integer of at
// most 256 bits.
func ParseUint(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty integer", errs.ErrInvalidArgument)
	}

	v, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer", errs.ErrInvalidArgument, s)
	}

	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is negative", errs.ErrInvalidArgument, s)
	}

	return v, nil
}
