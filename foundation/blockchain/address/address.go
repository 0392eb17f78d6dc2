// Package address handles parsing and encoding of ledger account addresses.
package address

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

// HRP is the human readable part of every address on the ledger.
const HRP = "erd"

// Length is the number of raw bytes in an address. It is the size of an
// ed25519 public key.
const Length = 32

// Address represents an account on the ledger. It is associated with
// transactions and smart contracts alike. The zero value is not a valid
// address.
type Address struct {
	raw [Length]byte
	set bool
}

// Parse converts a bech32 string into an address and validates the checksum,
// the human readable part, and the payload length.
func Parse(bech string) (Address, error) {
	hrp, data, err := bech32.Decode(strings.TrimSpace(bech))
	if err != nil {
		return Address{}, fmt.Errorf("%w: address %q: %s", errs.ErrInvalidArgument, bech, err)
	}

	if hrp != HRP {
		return Address{}, fmt.Errorf("%w: address %q: unexpected prefix %q", errs.ErrInvalidArgument, bech, hrp)
	}

	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("%w: address %q: %s", errs.ErrInvalidArgument, bech, err)
	}

	return FromBytes(raw)
}

// FromBytes constructs an address from its raw byte form.
func FromBytes(raw []byte) (Address, error) {
	if len(raw) != Length {
		return Address{}, fmt.Errorf("%w: address must be %d bytes, got %d", errs.ErrInvalidArgument, Length, len(raw))
	}

	var a Address
	copy(a.raw[:], raw)
	a.set = true

	return a, nil
}

// FromHex constructs an address from its hex encoded raw form.
func FromHex(s string) (Address, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Address{}, fmt.Errorf("%w: address hex %q: %s", errs.ErrInvalidArgument, s, err)
	}

	return FromBytes(raw)
}

// MustParse is for tests and constants only; it panics on invalid input.
func MustParse(bech string) Address {
	a, err := Parse(bech)
	if err != nil {
		panic(err)
	}
	return a
}

// Bytes returns a copy of the raw bytes of the address.
func (a Address) Bytes() []byte {
	b := make([]byte, Length)
	copy(b, a.raw[:])
	return b
}

// Hex returns the raw bytes of the address as lowercase hex with no prefix.
func (a Address) Hex() string {
	return hex.EncodeToString(a.raw[:])
}

// Bech32 returns the human readable checksummed form of the address.
func (a Address) Bech32() string {
	if !a.set {
		return ""
	}

	data, err := bech32.ConvertBits(a.raw[:], 8, 5, true)
	if err != nil {
		return ""
	}

	s, err := bech32.Encode(HRP, data)
	if err != nil {
		return ""
	}

	return s
}

// String implements the Stringer interface.
func (a Address) String() string {
	return a.Bech32()
}

// IsZero reports whether the address was never set.
func (a Address) IsZero() bool {
	return !a.set
}

// Equal reports whether both addresses hold the same bytes.
func (a Address) Equal(other Address) bool {
	return a.set == other.set && bytes.Equal(a.raw[:], other.raw[:])
}

// MarshalJSON encodes the address in its bech32 form.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Bech32())
}

// UnmarshalJSON decodes a bech32 address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	addr, err := Parse(s)
	if err != nil {
		return err
	}

	*a = addr
	return nil
}
