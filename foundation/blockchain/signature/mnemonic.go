package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

// Wallets derive account keys along m/44'/508'/0'/0'/index'.
const (
	purpose   = 44
	coinType  = 508
	hardened  = 0x80000000
	masterKey = "ed25519 seed"
)

// NewMnemonic returns a new 24 word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	defer zero(entropy)

	return bip39.NewMnemonic(entropy)
}

// FromMnemonic derives the key pair of the account at index.
func FromMnemonic(mnemonic string, passphrase string, index uint32) (*KeyPair, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("%w: invalid mnemonic", errs.ErrInvalidKey)
	}

	seed := bip39.NewSeed(mnemonic, passphrase)
	defer zero(seed)

	key := deriveKey(seed, []uint32{purpose, coinType, 0, 0, index})
	defer zero(key)

	return fromSeed(key)
}

// deriveKey walks the hardened path from the master key (SLIP-0010).
func deriveKey(seed []byte, path []uint32) []byte {
	mac := hmac.New(sha512.New, []byte(masterKey))
	mac.Write(seed)
	sum := mac.Sum(nil)

	key, chain := sum[:32], sum[32:]

	data := make([]byte, 1+32+4)
	defer zero(data)

	for _, i := range path {
		copy(data[1:33], key)
		binary.BigEndian.PutUint32(data[33:], i|hardened)

		mac = hmac.New(sha512.New, chain)
		mac.Write(data)
		next := mac.Sum(nil)

		zero(sum)
		sum = next
		key, chain = sum[:32], sum[32:]
	}

	out := make([]byte, 32)
	copy(out, key)
	zero(sum)

	return out
}
