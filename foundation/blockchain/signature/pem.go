package signature

import (
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"strings"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

// pemType prefixes the block type of a wallet key file. The address of the
// key follows it.
const pemType = "PRIVATE KEY for "

// LoadPEM reads a wallet key file. The block holds the hex encoded seed and
// public key.
func LoadPEM(path string) (*KeyPair, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParsePEM(content)
}

// ParsePEM decodes the first key block in the content.
func ParsePEM(content []byte) (*KeyPair, error) {
	block, _ := pem.Decode(content)
	if block == nil {
		return nil, fmt.Errorf("%w: no pem block found", errs.ErrInvalidKey)
	}
	defer zero(block.Bytes)

	if !strings.HasPrefix(block.Type, pemType) {
		return nil, fmt.Errorf("%w: unexpected pem block %q", errs.ErrInvalidKey, block.Type)
	}

	raw := make([]byte, hex.DecodedLen(len(block.Bytes)))
	defer zero(raw)
	if _, err := hex.Decode(raw, block.Bytes); err != nil {
		return nil, fmt.Errorf("%w: pem payload is not hex", errs.ErrInvalidKey)
	}

	kp, err := FromBytes(raw)
	if err != nil {
		return nil, err
	}

	if want := strings.TrimPrefix(block.Type, pemType); want != kp.address.Bech32() {
		kp.Destroy()
		return nil, fmt.Errorf("%w: pem address %s does not match key", errs.ErrInvalidKey, want)
	}

	return kp, nil
}

// EncodePEM returns the wallet key file content for the key pair.
func EncodePEM(kp *KeyPair) ([]byte, error) {
	if kp == nil || len(kp.privateKey) == 0 {
		return nil, fmt.Errorf("%w: key pair destroyed", errs.ErrInvalidKey)
	}

	// An ed25519 private key is the seed followed by the public key.
	payload := []byte(hex.EncodeToString(kp.privateKey))
	defer zero(payload)

	block := pem.Block{
		Type:  pemType + kp.address.Bech32(),
		Bytes: payload,
	}

	return pem.EncodeToMemory(&block), nil
}

// SavePEM writes the wallet key file with owner only permissions.
func SavePEM(path string, kp *KeyPair) error {
	content, err := EncodePEM(kp)
	if err != nil {
		return err
	}
	defer zero(content)

	return os.WriteFile(path, content, 0600)
}
