package ethclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrNoEndpoints is returned by Connect when the configuration names no endpoint.
	ErrNoEndpoints = errors.New("ethclient: no endpoints configured")

	// ErrUnreachable is returned by Connect when every configured endpoint failed.
	ErrUnreachable = errors.New("ethclient: no endpoint reachable")
)

// Connect establishes a transport from cfg and makes it the client's active one.
//
// Endpoints are tried in preference order (IPC, WebSocket, local HTTP, hosted
// HTTP). Each dialed endpoint is probed with eth_blockNumber, since HTTP dials
// are lazy and would otherwise succeed against a dead node. The first endpoint
// that answers wins and is reported as Connection.Active; on failure the
// previous transport is left in place.
func (c *Client) Connect(ctx context.Context, cfg TransportConfig) (*Connection, error) {
	cands := cfg.candidates()
	if len(cands) == 0 {
		return nil, ErrNoEndpoints
	}

	var errs []error
	for _, cand := range cands {
		rc, err := dial(ctx, cand)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", cand.kind, cand.endpoint, err))
			continue
		}
		var head string
		if err := rc.CallContext(ctx, &head, "eth_blockNumber"); err != nil {
			rc.Close()
			errs = append(errs, fmt.Errorf("%s %s: probe: %w", cand.kind, cand.endpoint, err))
			continue
		}
		c.swap(rc)
		conn := cfg.Connection()
		conn.Active = cand.endpoint
		return conn, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrUnreachable, errors.Join(errs...))
}

func dial(ctx context.Context, cand candidate) (*rpc.Client, error) {
	switch cand.kind {
	case kindIPC:
		return rpc.DialIPC(ctx, cand.endpoint)
	case kindWS:
		return rpc.DialWebsocket(ctx, cand.endpoint, "")
	default:
		return rpc.DialHTTP(cand.endpoint)
	}
}
