// Package transaction handles the construction, canonical serialization, and
// signing of ledger transactions.
package transaction

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/argument"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/signature"
)

// Tx represents an unsigned transaction.
type Tx struct {
	Nonce    uint64          // Unique, strictly increasing number per sender.
	Value    string          // Decimal amount to transfer.
	Receiver address.Address // The transaction recipient, often a contract.
	Sender   address.Address // The transaction sender.
	GasPrice uint64          // Price paid per unit of gas.
	GasLimit uint64          // Maximum units of gas the node may charge.
	Data     []byte          // Payload interpreted by the receiver.
	ChainID  string          // Network the transaction is valid on.
	Version  uint32          // Transaction format version.
}

// NewTx constructs an unsigned transaction. The sender account must have been
// fetched from the node right before this call; its nonce becomes the nonce
// of the transaction.
func NewTx(net network.Config, sender Account, receiver address.Address, value string, data []byte) (Tx, error) {
	if err := net.Validate(); err != nil {
		return Tx{}, fmt.Errorf("%w: network: %s", errs.ErrInvalidArgument, err)
	}

	if sender.Address.IsZero() {
		return Tx{}, fmt.Errorf("%w: invalid sender", errs.ErrInvalidArgument)
	}

	if receiver.IsZero() {
		return Tx{}, fmt.Errorf("%w: invalid receiver", errs.ErrInvalidArgument)
	}

	v, err := argument.ParseUint(value)
	if err != nil {
		return Tx{}, fmt.Errorf("value: %w", err)
	}

	var payload []byte
	if len(data) > 0 {
		payload = make([]byte, len(data))
		copy(payload, data)
	}

	return Tx{
		Nonce:    sender.Nonce,
		Value:    v.String(),
		Receiver: receiver,
		Sender:   sender.Address,
		GasPrice: net.GasPrice,
		GasLimit: net.GasLimit,
		Data:     payload,
		ChainID:  net.ChainID,
		Version:  net.Version,
	}, nil
}

// SigningBytes returns the canonical serialization of the transaction the
// signature covers. The node recomputes these exact bytes to verify it.
func (tx Tx) SigningBytes() ([]byte, error) {
	return marshal(tx.frontend(""))
}

// Sign signs the transaction with the key pair that owns the sender.
func (tx Tx) Sign(kp *signature.KeyPair) (SignedTx, error) {
	if !kp.Address().Equal(tx.Sender) {
		return SignedTx{}, fmt.Errorf("%w: key does not own sender %s", errs.ErrInvalidKey, tx.Sender)
	}

	data, err := tx.SigningBytes()
	if err != nil {
		return SignedTx{}, err
	}

	sig, err := kp.Sign(data)
	if err != nil {
		return SignedTx{}, err
	}

	return SignedTx{
		Tx:        tx,
		Signature: sig,
	}, nil
}

// String implements the Stringer interface.
func (tx Tx) String() string {
	return fmt.Sprintf("%s: %d", tx.Sender, tx.Nonce)
}

// frontend converts the transaction into its wire form.
func (tx Tx) frontend(sig string) FrontendTransaction {
	return FrontendTransaction{
		Nonce:     tx.Nonce,
		Value:     tx.Value,
		Receiver:  tx.Receiver.Bech32(),
		Sender:    tx.Sender.Bech32(),
		GasPrice:  tx.GasPrice,
		GasLimit:  tx.GasLimit,
		Data:      tx.Data,
		Signature: sig,
		ChainID:   tx.ChainID,
		Version:   tx.Version,
	}
}

// =============================================================================

// SignedTx represents a signed transaction. Changing any field of the
// embedded Tx after signing invalidates the signature.
type SignedTx struct {
	Tx
	Signature []byte
}

// Verify recomputes the signing bytes and checks the signature was produced
// by the sender.
func (tx SignedTx) Verify() error {
	if len(tx.Signature) == 0 {
		return fmt.Errorf("%w: missing signature", errs.ErrInvalidArgument)
	}

	data, err := tx.SigningBytes()
	if err != nil {
		return err
	}

	if err := signature.Verify(tx.Sender, data, tx.Signature); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrInvalidArgument, err)
	}

	return nil
}

// SignatureString returns the signature as a string.
func (tx SignedTx) SignatureString() string {
	return signature.SignatureString(tx.Signature)
}

// Frontend returns the wire form submitted to the node.
func (tx SignedTx) Frontend() FrontendTransaction {
	return tx.Tx.frontend(tx.SignatureString())
}

// MarshalJSON implements the json.Marshaler interface.
func (tx SignedTx) MarshalJSON() ([]byte, error) {
	return marshal(tx.Frontend())
}

// =============================================================================

// FrontendTransaction represents the DTO used in transaction signing and
// submission. Field order is part of the signing format.
type FrontendTransaction struct {
	Nonce     uint64 `json:"nonce"`
	Value     string `json:"value"`
	Receiver  string `json:"receiver"`
	Sender    string `json:"sender"`
	GasPrice  uint64 `json:"gasPrice"`
	GasLimit  uint64 `json:"gasLimit"`
	Data      []byte `json:"data,omitempty"`
	Signature string `json:"signature,omitempty"`
	ChainID   string `json:"chainID"`
	Version   uint32 `json:"version"`
}

// SignedTx parses the wire form back into a signed transaction.
func (ft FrontendTransaction) SignedTx() (SignedTx, error) {
	sender, err := address.Parse(ft.Sender)
	if err != nil {
		return SignedTx{}, fmt.Errorf("sender: %w", err)
	}

	receiver, err := address.Parse(ft.Receiver)
	if err != nil {
		return SignedTx{}, fmt.Errorf("receiver: %w", err)
	}

	sig, err := hex.DecodeString(ft.Signature)
	if err != nil {
		return SignedTx{}, fmt.Errorf("%w: signature: %s", errs.ErrInvalidArgument, err)
	}

	return SignedTx{
		Tx: Tx{
			Nonce:    ft.Nonce,
			Value:    ft.Value,
			Receiver: receiver,
			Sender:   sender,
			GasPrice: ft.GasPrice,
			GasLimit: ft.GasLimit,
			Data:     ft.Data,
			ChainID:  ft.ChainID,
			Version:  ft.Version,
		},
		Signature: sig,
	}, nil
}

// marshal encodes the value without HTML escaping and without the trailing
// newline the encoder adds.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
