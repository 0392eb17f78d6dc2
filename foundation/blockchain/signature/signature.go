// Package signature handles all lower level support for signing transactions.
package signature

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

// Length is the size of a signature in bytes.
const Length = ed25519.SignatureSize

// KeyPair holds a private key and the address derived from it. A key pair
// lives for a single signing operation; call Destroy when done with it.
type KeyPair struct {
	privateKey ed25519.PrivateKey
	address    address.Address
}

// NewKeyPair derives a key pair from a hex encoded private key. Both the
// 32 byte seed and the 64 byte seed plus public key forms are accepted.
func NewKeyPair(secret string) (*KeyPair, error) {
	secret = strings.TrimPrefix(strings.TrimSpace(secret), "0x")

	raw, err := hex.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not hex", errs.ErrInvalidKey)
	}
	defer zero(raw)

	return FromBytes(raw)
}

// FromBytes derives a key pair from a raw private key.
func FromBytes(raw []byte) (*KeyPair, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		return fromSeed(raw)

	case ed25519.PrivateKeySize:
		kp, err := fromSeed(raw[:ed25519.SeedSize])
		if err != nil {
			return nil, err
		}

		// The trailing half must be the public key of the seed.
		if string(kp.address.Bytes()) != string(raw[ed25519.SeedSize:]) {
			kp.Destroy()
			return nil, fmt.Errorf("%w: public key does not match seed", errs.ErrInvalidKey)
		}
		return kp, nil
	}

	return nil, fmt.Errorf("%w: private key must be %d or %d bytes, got %d", errs.ErrInvalidKey, ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
}

// GenerateKey creates a new random key pair.
func GenerateKey() (*KeyPair, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("reading random seed: %w", err)
	}
	defer zero(seed)

	return fromSeed(seed)
}

// fromSeed builds the key pair for the seed.
func fromSeed(seed []byte) (*KeyPair, error) {
	privateKey := ed25519.NewKeyFromSeed(seed)

	publicKey, ok := privateKey.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: unable to derive public key", errs.ErrInvalidKey)
	}

	addr, err := address.FromBytes(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidKey, err)
	}

	return &KeyPair{
		privateKey: privateKey,
		address:    addr,
	}, nil
}

// Address returns the address owned by the key pair.
func (kp *KeyPair) Address() address.Address {
	return kp.address
}

// Sign uses the private key to sign the data.
func (kp *KeyPair) Sign(data []byte) ([]byte, error) {
	if kp.Destroyed() {
		return nil, fmt.Errorf("%w: key pair destroyed", errs.ErrInvalidKey)
	}

	sig := ed25519.Sign(kp.privateKey, data)

	// Data and signature check with public key.
	if err := Verify(kp.address, data, sig); err != nil {
		return nil, err
	}

	return sig, nil
}

// Destroy overwrites the private key material.
func (kp *KeyPair) Destroy() {
	if kp == nil {
		return
	}
	zero(kp.privateKey)
	kp.privateKey = nil
}

// Destroyed reports whether the key pair can no longer sign.
func (kp *KeyPair) Destroyed() bool {
	return kp == nil || len(kp.privateKey) != ed25519.PrivateKeySize
}

// String implements the Stringer interface. It never exposes the key.
func (kp *KeyPair) String() string {
	return kp.address.Bech32()
}

// Verify checks the signature was produced over the data by the private key
// that owns the address.
func Verify(addr address.Address, data []byte, sig []byte) error {
	if len(sig) != Length {
		return fmt.Errorf("invalid signature length %d", len(sig))
	}

	if !ed25519.Verify(ed25519.PublicKey(addr.Bytes()), data, sig) {
		return errors.New("signature verification failed")
	}

	return nil
}

// SignatureString returns the signature as lowercase hex.
func SignatureString(sig []byte) string {
	return hex.EncodeToString(sig)
}

// zero overwrites the bytes in place.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
