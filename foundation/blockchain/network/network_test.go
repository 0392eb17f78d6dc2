package network_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
)

func TestValidate(t *testing.T) {
	require.NoError(t, network.Default().Validate())

	cfg := network.Default()
	cfg.ChainID = ""
	require.ErrorContains(t, cfg.Validate(), "chain id")

	cfg = network.Default()
	cfg.GasLimit = 0
	require.ErrorContains(t, cfg.Validate(), "gas limit")
}

func TestCheck(t *testing.T) {
	node := network.NodeConfig{
		ChainID:               "D",
		MinGasLimit:           50_000,
		MinGasPrice:           1_000_000_000,
		MinTransactionVersion: 1,
	}

	require.NoError(t, network.Default().Check(node))

	cfg := network.Default()
	cfg.ChainID = "1"
	require.ErrorContains(t, cfg.Check(node), "chain id mismatch")

	cfg = network.Default()
	cfg.GasPrice = 1
	require.ErrorContains(t, cfg.Check(node), "gas price")
}
