// Package proxy provides a client for the ledger's proxy API. It fetches
// account state, submits signed transactions, and runs read only smart
// contract queries. It never retries a call and holds no state between calls.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/network"
)

// EventHandler defines a function that is called when events occur while
// talking to the node.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to talk to a node.
type Config struct {
	URL       string
	Timeout   time.Duration
	Client    *http.Client
	EvHandler EventHandler
}

// Client talks to the proxy API of a ledger node.
type Client struct {
	baseURL   string
	client    *http.Client
	evHandler EventHandler
}

// New constructs a client for the node at the configured URL.
func New(cfg Config) (*Client, error) {
	url := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if url == "" {
		return nil, errors.New("proxy url is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:   url,
		client:    client,
		evHandler: ev,
	}, nil
}

// NetworkConfig returns the parameters of the network the node belongs to.
func (c *Client) NetworkConfig(ctx context.Context) (network.NodeConfig, error) {
	var resp struct {
		Config network.NodeConfig `json:"config"`
	}
	if err := c.send(ctx, http.MethodGet, "/network/config", nil, &resp, errs.ErrRejected); err != nil {
		return network.NodeConfig{}, err
	}

	return resp.Config, nil
}

// =============================================================================

// envelope is the response wrapper the proxy uses for every endpoint.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

// send is a helper function to send HTTP requests to the node. Transport
// failures and server errors map to ErrNetworkUnavailable. Errors the node
// reports for the request itself map to the specified kind with the node's
// message kept verbatim.
func (c *Client) send(ctx context.Context, method string, path string, dataSend any, dataRecv any, kind error) error {
	url := c.baseURL + path

	c.evHandler("proxy: send: started: %s %s", method, url)
	defer c.evHandler("proxy: send: completed: %s %s", method, url)

	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	msg, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", errs.ErrNetworkUnavailable, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(msg, &env)

	switch {
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		c.evHandler("proxy: send: status[%d]: ERROR: %s", resp.StatusCode, errorMessage(env, msg))
		return errs.NewRemoteError(errs.ErrNetworkUnavailable, env.Code, errorMessage(env, msg))

	case resp.StatusCode != http.StatusOK:
		c.evHandler("proxy: send: status[%d]: ERROR: %s", resp.StatusCode, errorMessage(env, msg))
		return errs.NewRemoteError(kind, env.Code, errorMessage(env, msg))
	}

	if decodeErr != nil {
		return fmt.Errorf("%w: decoding response: %w", errs.ErrNetworkUnavailable, decodeErr)
	}

	if env.Error != "" {
		return errs.NewRemoteError(kind, env.Code, env.Error)
	}

	if dataRecv != nil {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return fmt.Errorf("%w: response has no data", errs.ErrNetworkUnavailable)
		}
		if err := json.Unmarshal(env.Data, dataRecv); err != nil {
			return fmt.Errorf("%w: decoding data: %w", errs.ErrNetworkUnavailable, err)
		}
	}

	return nil
}

// errorMessage picks the node's error message, falling back to the raw body.
func errorMessage(env envelope, body []byte) string {
	if env.Error != "" {
		return env.Error
	}
	return strings.TrimSpace(string(body))
}
