package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qcbit/escrow-gateway/business/sys/validate"
)

type model struct {
	Recipient string `json:"recipient" validate:"required,bech32"`
	Amount    string `json:"amount" validate:"required,biguint"`
}

func TestCheck(t *testing.T) {
	good := model{
		Recipient: "erd1qlp7560vds526xgkl88d4s0atq67yts6l86vgrv3m4w5xdu8rprssdglu0",
		Amount:    "1000000000000000000",
	}
	require.NoError(t, validate.Check(good))

	err := validate.Check(model{Recipient: "erd1bad", Amount: "-1"})
	require.True(t, validate.IsFieldErrors(err))

	fields := validate.GetFieldErrors(err).Fields()
	require.Equal(t, "recipient must be a bech32 address", fields["recipient"])
	require.Equal(t, "amount must be a non-negative integer", fields["amount"])

	err = validate.Check(model{})
	fields = validate.GetFieldErrors(err).Fields()
	require.Equal(t, "recipient is a required field", fields["recipient"])
	require.Len(t, fields, 2)
}
