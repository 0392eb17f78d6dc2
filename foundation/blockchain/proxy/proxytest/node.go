// Package proxytest provides an in-memory ledger node speaking the proxy API
// for use in tests.
package proxytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/transaction"
)

// QueryFunc answers a contract query with the returned values or a contract
// error message.
type QueryFunc func(args []string) ([][]byte, string)

// Node is a fake ledger node. Submitted transactions are verified and
// consume the sender's nonce.
type Node struct {
	Server *httptest.Server

	mu        sync.Mutex
	config    network.NodeConfig
	accounts  map[string]*account
	queries   map[string]QueryFunc
	submitted []transaction.SignedTx
	requests  map[string]int
	down      bool
}

type account struct {
	nonce   uint64
	balance string
}

// NewNode starts a fake node for the network. Call Close when done.
func NewNode(cfg network.Config) *Node {
	n := Node{
		config: network.NodeConfig{
			ChainID:               cfg.ChainID,
			MinGasLimit:           50_000,
			MinGasPrice:           cfg.GasPrice,
			MinTransactionVersion: 1,
			GasPerDataByte:        1_500,
		},
		accounts: make(map[string]*account),
		queries:  make(map[string]QueryFunc),
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/network/config", n.handleNetworkConfig)
	mux.HandleFunc("/address/", n.handleAccount)
	mux.HandleFunc("/transaction/send", n.handleSend)
	mux.HandleFunc("/vm-values/query", n.handleQuery)

	n.Server = httptest.NewServer(mux)

	return &n
}

// URL returns the base URL of the node.
func (n *Node) URL() string {
	return n.Server.URL
}

// Close shuts the node down.
func (n *Node) Close() {
	n.Server.Close()
}

// SetAccount sets the nonce and balance of an account.
func (n *Node) SetAccount(addr address.Address, nonce uint64, balance string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.accounts[addr.Bech32()] = &account{nonce: nonce, balance: balance}
}

// Nonce returns the current nonce of an account.
func (n *Node) Nonce(addr address.Address) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if acc, exists := n.accounts[addr.Bech32()]; exists {
		return acc.nonce
	}
	return 0
}

// HandleQuery registers the answer for a contract function.
func (n *Node) HandleQuery(function string, fn QueryFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.queries[function] = fn
}

// SetDown makes every endpoint answer with a server error.
func (n *Node) SetDown(down bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.down = down
}

// Submitted returns a copy of the accepted transactions in order.
func (n *Node) Submitted() []transaction.SignedTx {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]transaction.SignedTx, len(n.submitted))
	copy(out, n.submitted)
	return out
}

// Requests returns how many requests hit the endpoint path prefix.
func (n *Node) Requests(prefix string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	var total int
	for path, count := range n.requests {
		if strings.HasPrefix(path, prefix) {
			total += count
		}
	}
	return total
}

// =============================================================================

func (n *Node) handleNetworkConfig(w http.ResponseWriter, r *http.Request) {
	if !n.begin(w, r) {
		return
	}

	n.mu.Lock()
	cfg := n.config
	n.mu.Unlock()

	respond(w, http.StatusOK, map[string]any{"config": cfg}, "")
}

func (n *Node) handleAccount(w http.ResponseWriter, r *http.Request) {
	if !n.begin(w, r) {
		return
	}

	bech := strings.TrimPrefix(r.URL.Path, "/address/")
	if _, err := address.Parse(bech); err != nil {
		respond(w, http.StatusBadRequest, nil, "cannot get account: invalid address")
		return
	}

	n.mu.Lock()
	acc, exists := n.accounts[bech]
	if !exists {
		acc = &account{balance: "0"}
	}
	resp := map[string]any{
		"account": map[string]any{
			"address": bech,
			"nonce":   acc.nonce,
			"balance": acc.balance,
		},
	}
	n.mu.Unlock()

	respond(w, http.StatusOK, resp, "")
}

func (n *Node) handleSend(w http.ResponseWriter, r *http.Request) {
	if !n.begin(w, r) {
		return
	}

	var ft transaction.FrontendTransaction
	if err := json.NewDecoder(r.Body).Decode(&ft); err != nil {
		respond(w, http.StatusBadRequest, nil, "invalid tx fields")
		return
	}

	tx, err := ft.SignedTx()
	if err != nil {
		respond(w, http.StatusBadRequest, nil, err.Error())
		return
	}

	if err := tx.Verify(); err != nil {
		respond(w, http.StatusBadRequest, nil, "transaction generation failed: ed25519: invalid signature")
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if tx.ChainID != n.config.ChainID {
		respond(w, http.StatusBadRequest, nil, "transaction generation failed: invalid chain ID")
		return
	}

	acc, exists := n.accounts[tx.Sender.Bech32()]
	if !exists {
		acc = &account{balance: "0"}
		n.accounts[tx.Sender.Bech32()] = acc
	}

	if tx.Nonce != acc.nonce {
		respond(w, http.StatusBadRequest, nil, fmt.Sprintf("transaction generation failed: invalid nonce: have %d, want %d", tx.Nonce, acc.nonce))
		return
	}

	acc.nonce++
	n.submitted = append(n.submitted, tx)

	hash := fmt.Sprintf("%064x", len(n.submitted))
	respond(w, http.StatusOK, map[string]any{"txHash": hash}, "")
}

func (n *Node) handleQuery(w http.ResponseWriter, r *http.Request) {
	if !n.begin(w, r) {
		return
	}

	var req struct {
		ScAddress string   `json:"scAddress"`
		FuncName  string   `json:"funcName"`
		Args      []string `json:"args"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, nil, "invalid query")
		return
	}

	n.mu.Lock()
	fn, exists := n.queries[req.FuncName]
	n.mu.Unlock()

	if !exists {
		vm := map[string]any{"returnData": nil, "returnCode": "function not found", "returnMessage": "invalid function (not found)"}
		respond(w, http.StatusOK, map[string]any{"data": vm}, "")
		return
	}

	values, failure := fn(req.Args)
	if failure != "" {
		vm := map[string]any{"returnData": nil, "returnCode": "user error", "returnMessage": failure}
		respond(w, http.StatusOK, map[string]any{"data": vm}, "")
		return
	}

	vm := map[string]any{"returnData": values, "returnCode": "ok", "returnMessage": ""}
	respond(w, http.StatusOK, map[string]any{"data": vm}, "")
}

// begin counts the request and fails it when the node is down.
func (n *Node) begin(w http.ResponseWriter, r *http.Request) bool {
	n.mu.Lock()
	n.requests[r.URL.Path]++
	down := n.down
	n.mu.Unlock()

	if down {
		respond(w, http.StatusServiceUnavailable, nil, "node unavailable")
		return false
	}
	return true
}

// respond writes the proxy response envelope.
func respond(w http.ResponseWriter, status int, data any, errMsg string) {
	code := "successful"
	if errMsg != "" {
		code = "bad_request"
		if status >= http.StatusInternalServerError {
			code = "internal_issue"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"data":  data,
		"error": errMsg,
		"code":  code,
	})
}
