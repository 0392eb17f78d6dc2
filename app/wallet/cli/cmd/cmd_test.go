package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy/proxytest"
)

const (
	contract    = "erd1qlp7560vds526xgkl88d4s0atq67yts6l86vgrv3m4w5xdu8rprssdglu0"
	contractHex = "07c3ea69ec6c28ad1916f9cedac1fd5835e22e1af9f4c40d91dd5d4337871847"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestWallet(t *testing.T) {
	dir := t.TempDir()

	node := proxytest.NewNode(network.Default())
	defer node.Close()

	// Generate a key and read its address back.
	out, err := execute(t, "generate", "-a", "alice", "-p", dir)
	require.NoError(t, err)
	alice := strings.TrimSpace(out)

	addr, err := address.Parse(alice)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "alice.pem"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = execute(t, "generate", "-a", "alice", "-p", dir)
	require.Error(t, err, "an existing key must not be overwritten")

	out, err = execute(t, "address", "-a", "alice", "-p", dir)
	require.NoError(t, err)
	require.Equal(t, alice, strings.TrimSpace(out))

	out, err = execute(t, "accounts", "-p", dir)
	require.NoError(t, err)
	require.Equal(t, "alice\t"+alice, strings.TrimSpace(out))

	// Balance by name goes through the name service.
	node.SetAccount(addr, 3, "1000")
	out, err = execute(t, "balance", "alice", "-p", dir, "-u", node.URL())
	require.NoError(t, err)
	require.Contains(t, out, "nonce:   3")
	require.Contains(t, out, "balance: 1000")

	// Submit offers signed with the key file.
	out, err = execute(t, "offer", "create", "-a", "alice", "-p", dir, "-u", node.URL(), "--contract", contract, "-t", contract, "-v", "5")
	require.NoError(t, err)
	require.Len(t, strings.TrimSpace(out), 64)

	_, err = execute(t, "offer", "cancel", "3", "-a", "alice", "-p", dir, "-u", node.URL())
	require.NoError(t, err)

	submitted := node.Submitted()
	require.Len(t, submitted, 2)
	require.Equal(t, "create@"+contractHex, string(submitted[0].Data))
	require.Equal(t, "5", submitted[0].Value)
	require.Equal(t, uint64(3), submitted[0].Nonce)
	require.Equal(t, "cancelOffer@3", string(submitted[1].Data))
	require.Equal(t, uint64(4), submitted[1].Nonce)

	_, err = execute(t, "offer", "accept", "x", "-a", "alice", "-p", dir, "-u", node.URL())
	require.Error(t, err)
	require.Len(t, node.Submitted(), 2)

	// Query the contract.
	node.HandleQuery("getUserActiveOffers", func(args []string) ([][]byte, string) {
		if len(args) != 1 || args[0] != addr.Hex() {
			return nil, "unexpected arguments"
		}
		return [][]byte{{0x01}, {0x02}}, ""
	})
	node.HandleQuery("getActiveOffers", func(args []string) ([][]byte, string) {
		return [][]byte{{0xab}}, ""
	})

	out, err = execute(t, "offers", "-a", "alice", "-p", dir, "-u", node.URL())
	require.NoError(t, err)
	require.Equal(t, "01\n02\n", out)

	out, err = execute(t, "offers", "--active", "-p", dir, "-u", node.URL())
	require.NoError(t, err)
	require.Equal(t, "ab\n", out)
}

func TestMissingKey(t *testing.T) {
	_, err := execute(t, "address", "-a", "nobody", "-p", t.TempDir())
	require.Error(t, err)
}

func TestGenerateFromMnemonic(t *testing.T) {
	dir := t.TempDir()

	const mnemonic = "moral volcano peasant pass circle pen over picture flat shop clap goat never lyrics gather prepare woman film husband gravity behind test tiger improve"

	rootCmd.SetIn(strings.NewReader(mnemonic + "\n"))
	out, err := execute(t, "generate", "-m", "-i", "1", "-a", "bob", "-p", dir)
	require.NoError(t, err)
	require.Equal(t, "erd1spyavw0956vq68xj8y4tenjpq2wd5a9p2c6j8gsz7ztyrnpxrruqzu66jx", strings.TrimSpace(out))

	rootCmd.SetIn(strings.NewReader("not a mnemonic\n"))
	_, err = execute(t, "generate", "-m", "-a", "carol", "-p", dir)
	require.Error(t, err)

	out, err = execute(t, "mnemonic")
	require.NoError(t, err)
	require.Len(t, strings.Fields(out), 24)
}
