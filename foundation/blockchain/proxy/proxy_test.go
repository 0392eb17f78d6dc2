package proxy_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/calldata"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy/proxytest"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/signature"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/transaction"
)

const (
	senderSeed   = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	contractBech = "erd1qlp7560vds526xgkl88d4s0atq67yts6l86vgrv3m4w5xdu8rprssdglu0"
)

func newClient(t *testing.T, url string) *proxy.Client {
	t.Helper()

	client, err := proxy.New(proxy.Config{
		URL:     url,
		Timeout: 5 * time.Second,
		EvHandler: func(v string, args ...any) {
			t.Logf(v, args...)
		},
	})
	require.NoError(t, err)

	return client
}

func TestNew(t *testing.T) {
	_, err := proxy.New(proxy.Config{})
	require.Error(t, err)
}

func TestAccount(t *testing.T) {
	node := proxytest.NewNode(network.Default())
	defer node.Close()

	client := newClient(t, node.URL())
	contract := address.MustParse(contractBech)

	// A new account has nonce zero, which is not an error.
	acc, err := client.Account(context.Background(), contract)
	require.NoError(t, err)
	require.Equal(t, uint64(0), acc.Nonce)
	require.Equal(t, "0", acc.Balance)
	require.True(t, acc.Address.Equal(contract))

	node.SetAccount(contract, 7, "123456789")
	acc, err = client.Account(context.Background(), contract)
	require.NoError(t, err)
	require.Equal(t, uint64(7), acc.Nonce)
	require.Equal(t, "123456789", acc.Balance)

	_, err = client.Account(context.Background(), address.Address{})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestAccountNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"data":null,"error":"account not found","code":"not_found"}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Account(context.Background(), address.MustParse(contractBech))
	require.ErrorIs(t, err, errs.ErrAccountNotFound)
	require.Equal(t, "account not found", err.Error())
}

func TestNetworkUnavailable(t *testing.T) {
	node := proxytest.NewNode(network.Default())
	client := newClient(t, node.URL())
	contract := address.MustParse(contractBech)

	node.SetDown(true)
	_, err := client.Account(context.Background(), contract)
	require.ErrorIs(t, err, errs.ErrNetworkUnavailable)
	require.True(t, errs.IsRetryable(err))

	// A closed server fails at the transport.
	node.Close()
	_, err = client.Account(context.Background(), contract)
	require.ErrorIs(t, err, errs.ErrNetworkUnavailable)
}

func TestContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, srv.URL).Account(ctx, address.MustParse(contractBech))
	require.ErrorIs(t, err, errs.ErrNetworkUnavailable)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSendTransaction(t *testing.T) {
	node := proxytest.NewNode(network.Default())
	defer node.Close()

	client := newClient(t, node.URL())

	kp, err := signature.NewKeyPair(senderSeed)
	require.NoError(t, err)
	defer kp.Destroy()

	node.SetAccount(kp.Address(), 5, "2000000000000000000")

	build := func() transaction.SignedTx {
		acc, err := client.Account(context.Background(), kp.Address())
		require.NoError(t, err)

		tx, err := transaction.NewTx(network.Default(), acc, address.MustParse(contractBech), "0", []byte("cancelOffer@3"))
		require.NoError(t, err)

		signed, err := tx.Sign(kp)
		require.NoError(t, err)
		return signed
	}

	first := build()
	hash, err := client.SendTransaction(context.Background(), first)
	require.NoError(t, err)
	require.Len(t, hash, 64)

	// Each fresh fetch yields a strictly increasing nonce.
	second := build()
	require.Greater(t, second.Nonce, first.Nonce)
	_, err = client.SendTransaction(context.Background(), second)
	require.NoError(t, err)

	// Resubmitting a consumed nonce is rejected with the node's message.
	_, err = client.SendTransaction(context.Background(), first)
	require.ErrorIs(t, err, errs.ErrRejected)
	require.Contains(t, err.Error(), "invalid nonce")

	require.Len(t, node.Submitted(), 2)

	_, err = client.SendTransaction(context.Background(), transaction.SignedTx{Tx: first.Tx})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestSendTransactionBadSignature(t *testing.T) {
	node := proxytest.NewNode(network.Default())
	defer node.Close()

	kp, err := signature.NewKeyPair(senderSeed)
	require.NoError(t, err)
	defer kp.Destroy()

	tx, err := transaction.NewTx(network.Default(), transaction.Account{Address: kp.Address()}, address.MustParse(contractBech), "0", nil)
	require.NoError(t, err)

	signed, err := tx.Sign(kp)
	require.NoError(t, err)
	signed.Value = "1"

	_, err = newClient(t, node.URL()).SendTransaction(context.Background(), signed)
	require.ErrorIs(t, err, errs.ErrRejected)
	require.Contains(t, err.Error(), "invalid signature")
}

func TestQueryContract(t *testing.T) {
	node := proxytest.NewNode(network.Default())
	defer node.Close()

	node.HandleQuery("getActiveOffers", func(args []string) ([][]byte, string) {
		return nil, ""
	})
	node.HandleQuery("getOffer", func(args []string) ([][]byte, string) {
		if len(args) != 1 || args[0] != "3" {
			return nil, "offer not found"
		}
		return [][]byte{{0x00, 0x03}, {0xff}}, ""
	})

	client := newClient(t, node.URL())
	contract := address.MustParse(contractBech)

	call, err := calldata.New("getActiveOffers")
	require.NoError(t, err)

	// Zero offers is an empty result set, not an error.
	res, err := client.QueryContract(context.Background(), proxy.Query{Contract: contract, Call: call})
	require.NoError(t, err)
	require.Equal(t, 0, res.Len())
	require.NotNil(t, res.ReturnData)

	call, err = calldata.New("getOffer", "3")
	require.NoError(t, err)

	res, err = client.QueryContract(context.Background(), proxy.Query{Contract: contract, Call: call})
	require.NoError(t, err)
	require.Equal(t, []string{"0003", "ff"}, res.Hex())
	require.Equal(t, []string{"AAM=", "/w=="}, res.Base64())

	call, err = calldata.New("getOffer", "9")
	require.NoError(t, err)

	_, err = client.QueryContract(context.Background(), proxy.Query{Contract: contract, Call: call})
	require.ErrorIs(t, err, errs.ErrContractExecution)
	require.Equal(t, "offer not found", err.Error())

	_, err = client.QueryContract(context.Background(), proxy.Query{Call: call})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestNetworkConfig(t *testing.T) {
	node := proxytest.NewNode(network.Default())
	defer node.Close()

	cfg, err := newClient(t, node.URL()).NetworkConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, "D", cfg.ChainID)
	require.NoError(t, network.Default().Check(cfg))
}
