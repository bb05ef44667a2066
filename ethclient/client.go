// Package ethclient provides the node-facing RPC client used by the connect package.
//
// Differences from go-ethereum's ethclient:
//   - Results are raw hex strings: decoding is left to the caller
//   - eth_coinbase errors from the node are folded into the "not found" sentinel
//   - The transport can be re-established in place with Connect
package ethclient

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrNotConnected is returned by calls issued before a transport is established.
	ErrNotConnected = errors.New("ethclient: not connected")
)

// Client wraps a go-ethereum rpc.Client whose transport can be swapped by Connect.
// It also carries the most recent gas price observed by the caller.
type Client struct {
	mu       sync.RWMutex
	c        *rpc.Client
	gasPrice *big.Int
}

// New returns a Client with no transport. Call Connect before issuing requests.
func New() *Client {
	return &Client{}
}

// Dial connects to a node at the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects to a node at the given URL with context.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a new Client from an existing RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c}
}

// Close closes the underlying RPC connection, if any.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.c != nil {
		c.c.Close()
		c.c = nil
	}
}

// Client returns the underlying RPC client.
func (c *Client) Client() *rpc.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.c
}

// swap installs rc as the active transport and closes the previous one.
func (c *Client) swap(rc *rpc.Client) {
	c.mu.Lock()
	old := c.c
	c.c = rc
	c.mu.Unlock()
	if old != nil && old != rc {
		old.Close()
	}
}

func (c *Client) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	rc := c.Client()
	if rc == nil {
		return ErrNotConnected
	}
	return rc.CallContext(ctx, result, method, args...)
}

// Version returns the network identifier reported by net_version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var result string
	err := c.call(ctx, &result, "net_version")
	return result, err
}

// Coinbase returns the node's default account as reported by eth_coinbase.
//
// A null result and a JSON-RPC error (geth answers with one when no etherbase
// is configured) both come back as an empty string with a nil error, so the
// caller sees a single "not found" sentinel. Transport failures are returned
// as errors.
func (c *Client) Coinbase(ctx context.Context) (string, error) {
	var result *string
	err := c.call(ctx, &result, "eth_coinbase")
	if err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			return "", nil
		}
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return *result, nil
}

// GasPrice returns the hex-encoded result of eth_gasPrice.
func (c *Client) GasPrice(ctx context.Context) (string, error) {
	var result string
	err := c.call(ctx, &result, "eth_gasPrice")
	return result, err
}

// BlockNumber returns the hex-encoded result of eth_blockNumber.
func (c *Client) BlockNumber(ctx context.Context) (string, error) {
	var result string
	err := c.call(ctx, &result, "eth_blockNumber")
	return result, err
}

// SetGasPrice records the latest gas price. A nil price clears it.
func (c *Client) SetGasPrice(price *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if price == nil {
		c.gasPrice = nil
		return
	}
	c.gasPrice = new(big.Int).Set(price)
}

// LastGasPrice returns a copy of the gas price last stored with SetGasPrice,
// or nil if none was stored.
func (c *Client) LastGasPrice() *big.Int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.gasPrice == nil {
		return nil
	}
	return new(big.Int).Set(c.gasPrice)
}
