// Package network maintains the fixed parameters of the ledger network the
// gateway submits transactions to.
package network

import (
	"errors"
	"fmt"
)

// Defaults match the public devnet.
const (
	DefaultChainID  = "D"
	DefaultGasLimit = 60_000_000
	DefaultGasPrice = 1_000_000_000
	DefaultVersion  = 1
)

// Config is the set of network parameters every transaction carries.
type Config struct {
	ChainID  string `json:"chain_id"`
	GasLimit uint64 `json:"gas_limit"`
	GasPrice uint64 `json:"gas_price"`
	Version  uint32 `json:"version"`
}

// Default returns the devnet parameters.
func Default() Config {
	return Config{
		ChainID:  DefaultChainID,
		GasLimit: DefaultGasLimit,
		GasPrice: DefaultGasPrice,
		Version:  DefaultVersion,
	}
}

// Validate checks the parameters are usable.
func (c Config) Validate() error {
	if c.ChainID == "" {
		return errors.New("chain id is required")
	}
	if c.GasLimit == 0 {
		return errors.New("gas limit is required")
	}
	if c.GasPrice == 0 {
		return errors.New("gas price is required")
	}
	if c.Version == 0 {
		return errors.New("version is required")
	}
	return nil
}

// NodeConfig represents the parameters a node reports about its network.
type NodeConfig struct {
	ChainID               string `json:"erd_chain_id"`
	MinGasLimit           uint64 `json:"erd_min_gas_limit"`
	MinGasPrice           uint64 `json:"erd_min_gas_price"`
	MinTransactionVersion uint32 `json:"erd_min_transaction_version"`
	GasPerDataByte        uint64 `json:"erd_gas_per_data_byte"`
}

// Check verifies the configured parameters are accepted by the node's
// network. A mismatch here means every submission would be rejected.
func (c Config) Check(node NodeConfig) error {
	if c.ChainID != node.ChainID {
		return fmt.Errorf("chain id mismatch: configured %q, node %q", c.ChainID, node.ChainID)
	}
	if c.GasPrice < node.MinGasPrice {
		return fmt.Errorf("gas price %d below node minimum %d", c.GasPrice, node.MinGasPrice)
	}
	if c.GasLimit < node.MinGasLimit {
		return fmt.Errorf("gas limit %d below node minimum %d", c.GasLimit, node.MinGasLimit)
	}
	if c.Version < node.MinTransactionVersion {
		return fmt.Errorf("version %d below node minimum %d", c.Version, node.MinTransactionVersion)
	}
	return nil
}
