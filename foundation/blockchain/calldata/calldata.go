// Package calldata composes the payload the ledger's virtual machine parses
// as a smart contract call: the function name followed by hex encoded
// arguments, all joined by a separator.
//
// Arguments are positional. Their order and encoding must match the target
// function's signature; nothing here checks that. A mismatch surfaces as a
// rejection by the contract at submission or query time.
package calldata

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

// Separator joins the function name and the arguments.
const Separator = "@"

// Call represents a smart contract function call with encoded arguments.
type Call struct {
	Function string
	Args     []string
}

// New constructs a call for the function with the already encoded arguments.
func New(function string, args ...string) (Call, error) {
	if function == "" {
		return Call{}, fmt.Errorf("%w: empty function name", errs.ErrInvalidArgument)
	}
	if strings.Contains(function, Separator) {
		return Call{}, fmt.Errorf("%w: function name %q contains %q", errs.ErrInvalidArgument, function, Separator)
	}

	for i, arg := range args {
		if strings.Contains(arg, Separator) {
			return Call{}, fmt.Errorf("%w: argument %d contains %q", errs.ErrInvalidArgument, i, Separator)
		}
		if !isLowerHex(arg) {
			return Call{}, fmt.Errorf("%w: argument %d %q is not lowercase hex", errs.ErrInvalidArgument, i, arg)
		}
	}

	return Call{
		Function: function,
		Args:     args,
	}, nil
}

// Compose returns the payload string for the function and arguments. With no
// arguments the payload is the bare function name.
func Compose(function string, args ...string) (string, error) {
	call, err := New(function, args...)
	if err != nil {
		return "", err
	}
	return call.String(), nil
}

// String implements the Stringer interface and returns the payload.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Function
	}

	var b strings.Builder
	b.WriteString(c.Function)
	for _, arg := range c.Args {
		b.WriteString(Separator)
		b.WriteString(arg)
	}

	return b.String()
}

// Bytes returns the payload as the data field of a transaction.
func (c Call) Bytes() []byte {
	return []byte(c.String())
}

// Parse splits a payload back into the function name and its arguments.
func Parse(payload string) (Call, error) {
	parts := strings.Split(payload, Separator)
	return New(parts[0], parts[1:]...)
}

// DecodeArgs returns the raw bytes of every argument. Odd length arguments
// are decoded as if they had a leading zero digit.
func (c Call) DecodeArgs() ([][]byte, error) {
	out := make([][]byte, len(c.Args))
	for i, arg := range c.Args {
		if len(arg)%2 != 0 {
			arg = "0" + arg
		}

		b, err := hex.DecodeString(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %s", errs.ErrInvalidArgument, i, err)
		}
		out[i] = b
	}

	return out, nil
}

// isLowerHex returns true if every character is a lowercase hex digit.
func isLowerHex(s string) bool {
	for _, c := range []byte(s) {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
