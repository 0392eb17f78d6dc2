// Package offer provides the core business API for escrow offers held by the
// ledger's smart contract. Mutating operations build, sign, and submit a
// transaction calling the contract; read operations query it.
package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/argument"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/calldata"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/signature"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/transaction"
	"github.com/qcbit/escrow-gateway/foundation/keylock"
)

// Node represents the behavior required from the ledger node.
type Node interface {
	Account(ctx context.Context, addr address.Address) (transaction.Account, error)
	SendTransaction(ctx context.Context, tx transaction.SignedTx) (string, error)
	QueryContract(ctx context.Context, q proxy.Query) (proxy.QueryResult, error)
}

// Config represents the configuration required to construct the core.
type Config struct {
	Log      *zap.SugaredLogger
	Node     Node
	Network  network.Config
	Contract Contract

	// SerializeSenders holds a lock per sender address from the nonce fetch
	// until the node answers the submission. Without it two concurrent
	// requests from one sender can fetch the same nonce and the second
	// submission is rejected.
	SerializeSenders bool
}

// Core manages the set of APIs for offer access.
type Core struct {
	log      *zap.SugaredLogger
	node     Node
	network  network.Config
	contract Contract
	locks    *keylock.KeyLock
}

// NewCore constructs a core for offer api access.
func NewCore(cfg Config) (*Core, error) {
	if cfg.Log == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Node == nil {
		return nil, errors.New("node is required")
	}
	if err := cfg.Network.Validate(); err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	if err := cfg.Contract.Validate(); err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}

	c := Core{
		log:      cfg.Log,
		node:     cfg.Node,
		network:  cfg.Network,
		contract: cfg.Contract,
	}

	if cfg.SerializeSenders {
		c.locks = keylock.New()
	}

	return &c, nil
}

// CreateOffer locks amount in a new offer to the recipient. The private key
// is the hex encoded 32 byte seed or 64 byte seed plus public key.
func (c *Core) CreateOffer(ctx context.Context, senderPrivateKey string, recipient string, amount string) (string, error) {
	kp, err := c.keyPair(c.contract.CreateFn, senderPrivateKey)
	if err != nil {
		return "", err
	}

	return c.CreateOfferWithKey(ctx, kp, recipient, amount)
}

// CancelOffer cancels an active offer created by the sender.
func (c *Core) CancelOffer(ctx context.Context, senderPrivateKey string, offerID string) (string, error) {
	kp, err := c.keyPair(c.contract.CancelFn, senderPrivateKey)
	if err != nil {
		return "", err
	}

	return c.CancelOfferWithKey(ctx, kp, offerID)
}

// AcceptOffer accepts an active offer made to the sender.
func (c *Core) AcceptOffer(ctx context.Context, senderPrivateKey string, offerID string) (string, error) {
	kp, err := c.keyPair(c.contract.AcceptFn, senderPrivateKey)
	if err != nil {
		return "", err
	}

	return c.AcceptOfferWithKey(ctx, kp, offerID)
}

// CreateOfferWithKey is CreateOffer for an already loaded key pair. The key
// pair is destroyed before returning.
func (c *Core) CreateOfferWithKey(ctx context.Context, kp *signature.KeyPair, recipient string, amount string) (string, error) {
	defer kp.Destroy()

	call, err := c.contract.createCall(recipient)
	if err != nil {
		submissions.WithLabelValues(c.contract.CreateFn, statusLabel(err)).Inc()
		return "", err
	}

	return c.submit(ctx, kp, amount, call)
}

// CancelOfferWithKey is CancelOffer for an already loaded key pair. The key
// pair is destroyed before returning.
func (c *Core) CancelOfferWithKey(ctx context.Context, kp *signature.KeyPair, offerID string) (string, error) {
	defer kp.Destroy()

	call, err := c.contract.idCall(c.contract.CancelFn, offerID)
	if err != nil {
		submissions.WithLabelValues(c.contract.CancelFn, statusLabel(err)).Inc()
		return "", err
	}

	return c.submit(ctx, kp, "0", call)
}

// AcceptOfferWithKey is AcceptOffer for an already loaded key pair. The key
// pair is destroyed before returning.
func (c *Core) AcceptOfferWithKey(ctx context.Context, kp *signature.KeyPair, offerID string) (string, error) {
	defer kp.Destroy()

	call, err := c.contract.idCall(c.contract.AcceptFn, offerID)
	if err != nil {
		submissions.WithLabelValues(c.contract.AcceptFn, statusLabel(err)).Inc()
		return "", err
	}

	return c.submit(ctx, kp, "0", call)
}

// Account returns the current nonce and balance of an account.
func (c *Core) Account(ctx context.Context, addr string) (transaction.Account, error) {
	a, err := address.Parse(addr)
	if err != nil {
		return transaction.Account{}, err
	}

	return c.node.Account(ctx, a)
}

// keyPair derives the key pair for a submission. A malformed key fails here,
// before anything reaches the network.
func (c *Core) keyPair(function string, secret string) (*signature.KeyPair, error) {
	kp, err := signature.NewKeyPair(secret)
	if err != nil {
		submissions.WithLabelValues(function, statusLabel(err)).Inc()
		return nil, err
	}

	return kp, nil
}

// submit runs the transaction pipeline: fetch the nonce, assemble, sign, and
// submit. Every step must succeed before the next one starts and nothing
// reaches the node unless signing succeeded.
func (c *Core) submit(ctx context.Context, kp *signature.KeyPair, value string, call calldata.Call) (string, error) {
	start := time.Now()

	if kp.Destroyed() {
		submissions.WithLabelValues(call.Function, statusLabel(errs.ErrInvalidKey)).Inc()
		return "", fmt.Errorf("%w: key pair missing or destroyed", errs.ErrInvalidKey)
	}

	if _, err := argument.ParseUint(value); err != nil {
		submissions.WithLabelValues(call.Function, statusLabel(err)).Inc()
		return "", fmt.Errorf("amount: %w", err)
	}

	sender := kp.Address()

	if c.locks != nil {
		unlock := c.locks.Lock(sender.Bech32())
		defer unlock()
	}

	hash, nonce, err := c.send(ctx, kp, value, call)

	submissions.WithLabelValues(call.Function, statusLabel(err)).Inc()
	submitLatency.WithLabelValues(call.Function).Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Infow("submit", "status", "failed", "function", call.Function, "sender", sender, "ERROR", err)
		return "", err
	}

	c.log.Infow("submit", "status", "submitted", "function", call.Function, "sender", sender, "nonce", nonce, "txhash", hash)

	return hash, nil
}

// send performs the network bound part of the pipeline.
func (c *Core) send(ctx context.Context, kp *signature.KeyPair, value string, call calldata.Call) (string, uint64, error) {
	account, err := c.node.Account(ctx, kp.Address())
	if err != nil {
		return "", 0, err
	}

	tx, err := transaction.NewTx(c.network, account, c.contract.Address, value, call.Bytes())
	if err != nil {
		return "", 0, err
	}

	signedTx, err := tx.Sign(kp)
	if err != nil {
		return "", 0, err
	}

	hash, err := c.node.SendTransaction(ctx, signedTx)
	if err != nil {
		return "", tx.Nonce, err
	}

	return hash, tx.Nonce, nil
}

// statusLabel classifies the error for metrics.
func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}

	switch errs.Kind(err) {
	case errs.ErrInvalidArgument:
		return "invalid_argument"
	case errs.ErrInvalidKey:
		return "invalid_key"
	case errs.ErrNetworkUnavailable:
		return "network_unavailable"
	case errs.ErrAccountNotFound:
		return "account_not_found"
	case errs.ErrRejected:
		return "rejected"
	case errs.ErrContractExecution:
		return "contract_error"
	}
	return "error"
}
