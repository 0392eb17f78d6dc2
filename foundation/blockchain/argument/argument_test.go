package argument_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/argument"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

const contractBech = "erd1qlp7560vds526xgkl88d4s0atq67yts6l86vgrv3m4w5xdu8rprssdglu0"

func TestAddress(t *testing.T) {
	hex, err := argument.AddressString(contractBech)
	require.NoError(t, err)
	require.Equal(t, "07c3ea69ec6c28ad1916f9cedac1fd5835e22e1af9f4c40d91dd5d4337871847", hex)
	require.Len(t, hex, 2*address.Length)

	// Encoding then decoding gives back the identical raw bytes.
	a := address.MustParse(contractBech)
	b, err := address.FromHex(argument.Address(a))
	require.NoError(t, err)
	require.Equal(t, a.Bytes(), b.Bytes())

	_, err = argument.AddressString("erd1qlp7560vds526xgkl88d4s0atq67yts6l86vgrv3m4w5xdu8rprssdglu1")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestID(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"0", ""},
		{"3", "3"},
		{"10", "a"},
		{"255", "ff"},
		{"256", "100"},
		{"0x1f", "1f"},
		{" 42 ", "2a"},
		{"1000000000000000000", "de0b6b3a7640000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, err := argument.ID(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.out, out)
		})
	}
}

func TestIDInvalid(t *testing.T) {
	for _, in := range []string{"", "-1", "abc", "1.5", "0x"} {
		t.Run(in, func(t *testing.T) {
			_, err := argument.ID(in)
			require.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}
}

func TestBigUint(t *testing.T) {
	_, err := argument.BigUint(big.NewInt(-5))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = argument.BigUint(nil)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	require.Equal(t, "", argument.Uint64(0))
	require.Equal(t, "5", argument.Uint64(5))
}

func TestBytes(t *testing.T) {
	require.Equal(t, "00ff", argument.Bytes([]byte{0x00, 0xff}))
	require.Equal(t, "6f6666657273", argument.String("offers"))
}
