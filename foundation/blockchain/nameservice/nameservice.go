// Package nameservice reads the wallet key folder and provides a name service
// lookup for the addresses it holds.
package nameservice

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/signature"
)

// KeyExt is the file extension of wallet key files.
const KeyExt = ".pem"

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	names    map[string]string
	accounts map[string]address.Address
}

// New constructs a new NameService from the key files under root. The name
// of an account is its file name without the extension.
func New(root string) (*NameService, error) {
	ns := NameService{
		names:    make(map[string]string),
		accounts: make(map[string]address.Address),
	}

	fn := func(filename string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if filepath.Ext(filename) != KeyExt {
			return nil
		}

		kp, err := signature.LoadPEM(filename)
		if err != nil {
			return fmt.Errorf("load private key failure: %s: %w", filename, err)
		}
		addr := kp.Address()
		kp.Destroy()

		name := strings.TrimSuffix(filepath.Base(filename), KeyExt)
		ns.names[addr.Bech32()] = name
		ns.accounts[name] = addr

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walkdir failure: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the given address, or the address itself when
// it is unknown.
func (ns *NameService) Lookup(addr address.Address) string {
	name, exists := ns.names[addr.Bech32()]
	if !exists {
		return addr.Bech32()
	}
	return name
}

// Resolve returns the address for a known name, or parses the value as an
// address.
func (ns *NameService) Resolve(nameOrAddress string) (address.Address, error) {
	if addr, exists := ns.accounts[nameOrAddress]; exists {
		return addr, nil
	}
	return address.Parse(nameOrAddress)
}

// Copy returns a copy of the address to name mapping.
func (ns *NameService) Copy() map[string]string {
	names := make(map[string]string, len(ns.names))
	for addr, name := range ns.names {
		names[addr] = name
	}
	return names
}
