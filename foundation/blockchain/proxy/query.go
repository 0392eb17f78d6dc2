package proxy

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/address"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/calldata"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

// ReturnCodeOK is the code of a query the contract executed successfully.
const ReturnCodeOK = "ok"

// Query represents a read only invocation of a smart contract function.
type Query struct {
	Contract address.Address
	Call     calldata.Call
	Caller   address.Address
	Value    string
}

// queryRequest is the wire form of a query.
type queryRequest struct {
	ScAddress string   `json:"scAddress"`
	FuncName  string   `json:"funcName"`
	Args      []string `json:"args"`
	Caller    string   `json:"caller,omitempty"`
	Value     string   `json:"value,omitempty"`
}

// QueryResult holds what the contract function returned. The bytes are not
// interpreted; the caller knows the return type of the function it queried.
type QueryResult struct {
	ReturnData    [][]byte `json:"returnData"`
	ReturnCode    string   `json:"returnCode"`
	ReturnMessage string   `json:"returnMessage"`
	GasRemaining  uint64   `json:"gasRemaining"`
}

// Len returns the number of values in the result set.
func (qr QueryResult) Len() int {
	return len(qr.ReturnData)
}

// Hex returns every returned value as lowercase hex.
func (qr QueryResult) Hex() []string {
	out := make([]string, len(qr.ReturnData))
	for i, b := range qr.ReturnData {
		out[i] = hex.EncodeToString(b)
	}
	return out
}

// Base64 returns every returned value as standard base64, the form the node
// uses on the wire.
func (qr QueryResult) Base64() []string {
	out := make([]string, len(qr.ReturnData))
	for i, b := range qr.ReturnData {
		out[i] = base64.StdEncoding.EncodeToString(b)
	}
	return out
}

// QueryContract runs the query against the node. It has no side effect on
// the ledger and is safe to retry. A function returning nothing yields an
// empty result set, not an error.
func (c *Client) QueryContract(ctx context.Context, q Query) (QueryResult, error) {
	if q.Contract.IsZero() {
		return QueryResult{}, fmt.Errorf("%w: empty contract address", errs.ErrInvalidArgument)
	}
	if q.Call.Function == "" {
		return QueryResult{}, fmt.Errorf("%w: empty function name", errs.ErrInvalidArgument)
	}

	args := make([]string, len(q.Call.Args))
	copy(args, q.Call.Args)

	req := queryRequest{
		ScAddress: q.Contract.Bech32(),
		FuncName:  q.Call.Function,
		Args:      args,
		Caller:    q.Caller.Bech32(),
		Value:     q.Value,
	}

	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.send(ctx, http.MethodPost, "/vm-values/query", req, &resp, errs.ErrContractExecution); err != nil {
		return QueryResult{}, err
	}

	var result QueryResult
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return QueryResult{}, fmt.Errorf("%w: decoding query result: %w", errs.ErrNetworkUnavailable, err)
		}
	}

	if result.ReturnCode != ReturnCodeOK {
		return QueryResult{}, errs.NewRemoteError(errs.ErrContractExecution, result.ReturnCode, result.ReturnMessage)
	}

	if result.ReturnData == nil {
		result.ReturnData = [][]byte{}
	}

	c.evHandler("proxy: query: %s: %s: values[%d]", q.Contract, q.Call, result.Len())

	return result, nil
}
