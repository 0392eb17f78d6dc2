package transaction_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/argument"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/calldata"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/signature"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/transaction"
)

const (
	senderSeed   = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	senderBech   = "erd16adfsqvzky9t042tlmfujeq88g8wzuhnm2nzxfd0qgdx3ac82ydqr3ns5u"
	contractBech = "erd1qlp7560vds526xgkl88d4s0atq67yts6l86vgrv3m4w5xdu8rprssdglu0"
	otherBech    = "erd1qyqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqquwsrdr"
)

func newCreateTx(t *testing.T) transaction.Tx {
	t.Helper()

	recipient, err := argument.AddressString(contractBech)
	require.NoError(t, err)

	data, err := calldata.Compose("create", recipient)
	require.NoError(t, err)

	sender := transaction.Account{
		Address: address.MustParse(senderBech),
		Nonce:   5,
		Balance: "0",
	}

	tx, err := transaction.NewTx(network.Default(), sender, address.MustParse(contractBech), "1000000000000000000", []byte(data))
	require.NoError(t, err)

	return tx
}

func TestNewTx(t *testing.T) {
	tx := newCreateTx(t)

	require.Equal(t, uint64(5), tx.Nonce)
	require.Equal(t, "1000000000000000000", tx.Value)
	require.Equal(t, "create@07c3ea69ec6c28ad1916f9cedac1fd5835e22e1af9f4c40d91dd5d4337871847", string(tx.Data))
	require.Equal(t, contractBech, tx.Receiver.Bech32())
	require.Equal(t, senderBech, tx.Sender.Bech32())
	require.Equal(t, "D", tx.ChainID)
	require.Equal(t, uint64(60_000_000), tx.GasLimit)
	require.Equal(t, uint64(1_000_000_000), tx.GasPrice)
	require.Equal(t, uint32(1), tx.Version)

	// The same inputs always produce the same envelope.
	require.Equal(t, tx, newCreateTx(t))
}

func TestNewTxInvalid(t *testing.T) {
	sender := transaction.Account{Address: address.MustParse(senderBech)}
	receiver := address.MustParse(contractBech)

	tests := []struct {
		name     string
		net      network.Config
		sender   transaction.Account
		receiver address.Address
		value    string
	}{
		{"negative value", network.Default(), sender, receiver, "-1"},
		{"float value", network.Default(), sender, receiver, "1.5"},
		{"empty value", network.Default(), sender, receiver, ""},
		{"no sender", network.Default(), transaction.Account{}, receiver, "0"},
		{"no receiver", network.Default(), sender, address.Address{}, "0"},
		{"no chain", network.Config{GasLimit: 1, GasPrice: 1, Version: 1}, sender, receiver, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transaction.NewTx(tt.net, tt.sender, tt.receiver, tt.value, nil)
			require.ErrorIs(t, err, errs.ErrInvalidArgument)
		})
	}
}

func TestSigningBytes(t *testing.T) {
	tx := newCreateTx(t)

	data, err := tx.SigningBytes()
	require.NoError(t, err)

	exp := `{"nonce":5,"value":"1000000000000000000",` +
		`"receiver":"` + contractBech + `",` +
		`"sender":"` + senderBech + `",` +
		`"gasPrice":1000000000,"gasLimit":60000000,` +
		`"data":"Y3JlYXRlQDA3YzNlYTY5ZWM2YzI4YWQxOTE2ZjljZWRhYzFmZDU4MzVlMjJlMWFmOWY0YzQwZDkxZGQ1ZDQzMzc4NzE4NDc=",` +
		`"chainID":"D","version":1}`
	require.Equal(t, exp, string(data))

	// An empty payload is omitted.
	tx.Data = nil
	data, err = tx.SigningBytes()
	require.NoError(t, err)
	require.NotContains(t, string(data), `"data"`)
}

func TestSign(t *testing.T) {
	kp, err := signature.NewKeyPair(senderSeed)
	require.NoError(t, err)
	defer kp.Destroy()

	tx := newCreateTx(t)

	signed, err := tx.Sign(kp)
	require.NoError(t, err)
	require.Len(t, signed.Signature, signature.Length)
	require.NoError(t, signed.Verify())

	again, err := tx.Sign(kp)
	require.NoError(t, err)
	require.Equal(t, signed.Signature, again.Signature, "signing must be deterministic")

	tests := []struct {
		name   string
		mutate func(tx *transaction.SignedTx)
	}{
		{"value", func(tx *transaction.SignedTx) { tx.Value = "1000000000000000001" }},
		{"nonce", func(tx *transaction.SignedTx) { tx.Nonce++ }},
		{"receiver", func(tx *transaction.SignedTx) { tx.Receiver = address.MustParse(otherBech) }},
		{"data", func(tx *transaction.SignedTx) { tx.Data = []byte("cancelOffer@3") }},
		{"chain", func(tx *transaction.SignedTx) { tx.ChainID = "1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			altered := signed
			tt.mutate(&altered)
			require.ErrorIs(t, altered.Verify(), errs.ErrInvalidArgument)
		})
	}

	require.NoError(t, signed.Verify(), "mutating a copy must not affect the original")
}

func TestSignWrongKey(t *testing.T) {
	kp, err := signature.GenerateKey()
	require.NoError(t, err)
	defer kp.Destroy()

	_, err = newCreateTx(t).Sign(kp)
	require.ErrorIs(t, err, errs.ErrInvalidKey)
}

func TestFrontendRoundTrip(t *testing.T) {
	kp, err := signature.NewKeyPair(senderSeed)
	require.NoError(t, err)
	defer kp.Destroy()

	signed, err := newCreateTx(t).Sign(kp)
	require.NoError(t, err)

	data, err := json.Marshal(signed)
	require.NoError(t, err)
	require.Contains(t, string(data), `"signature":"`+signed.SignatureString()+`"`)

	var ft transaction.FrontendTransaction
	require.NoError(t, json.Unmarshal(data, &ft))

	back, err := ft.SignedTx()
	require.NoError(t, err)
	require.NoError(t, back.Verify())
	require.Equal(t, signed.Signature, back.Signature)
	require.Equal(t, signed.Nonce, back.Nonce)
}

func TestVerifyMissingSignature(t *testing.T) {
	signed := transaction.SignedTx{Tx: newCreateTx(t)}
	require.ErrorIs(t, signed.Verify(), errs.ErrInvalidArgument)
}
