package connect

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"ethconnect/ethclient"
)

// Backend is the node-facing collaborator a Connector drives.
// Values are the raw strings the node returned.
type Backend interface {
	Connect(ctx context.Context, cfg ethclient.TransportConfig) (*ethclient.Connection, error)
	BlockNumber(ctx context.Context) (string, error)
	Version(ctx context.Context) (string, error)
	Coinbase(ctx context.Context) (string, error)
	GasPrice(ctx context.Context) (string, error)
	SetGasPrice(price *big.Int)
}

var _ Backend = (*ethclient.Client)(nil)

// Option configures a Connector.
type Option func(*Connector)

// WithLogger sets the logger. The default is log.Root().
func WithLogger(l log.Logger) Option {
	return func(c *Connector) {
		if l != nil {
			c.log = l
		}
	}
}

// Connector establishes a connection and binds the session to it.
//
// A Connector runs one attempt at a time and is not safe for concurrent use.
// The session is reset at the start of every pass and after a failed one, so
// nothing from a failed pass leaks into the next.
type Connector struct {
	backend Backend
	session *Session
	sync    *Synchronizer
	log     log.Logger
}

// New returns a Connector that drives backend and writes into session.
func New(backend Backend, session *Session, opts ...Option) *Connector {
	c := &Connector{
		backend: backend,
		session: session,
		log:     log.Root(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sync = NewSynchronizer(backend, session, c.log)
	return c
}

// Session returns the session the Connector writes into.
func (c *Connector) Session() *Session {
	return c.session
}

// Synchronizer returns the Synchronizer bound to the Connector's session,
// for refreshing single values after a connection is established.
func (c *Connector) Synchronizer() *Synchronizer {
	return c.sync
}

// Configure validates o and stores its contract registry, API tables and
// sender into the session. It does not contact the node. The returned
// transport configuration is the one the pass described by o will dial.
func (c *Connector) Configure(o Options) (ethclient.TransportConfig, error) {
	if err := o.Validate(); err != nil {
		return ethclient.TransportConfig{}, err
	}
	c.session.Registry = o.Contracts.Clone()
	c.session.API = o.API.Clone()
	if c.session.From == "" {
		c.session.From = o.From
	}
	return NewTransportConfig(o), nil
}

// Connect resets the session, configures it from o and runs SyncConnect.
// It returns the established connection, or nil and an error once the
// fallback policy gives up.
func (c *Connector) Connect(ctx context.Context, o Options) (*ethclient.Connection, error) {
	c.session.Reset()
	if _, err := c.Configure(o); err != nil {
		return nil, err
	}
	return c.SyncConnect(ctx, o)
}

// ConnectAsync is the callback form of Connect.
func (c *Connector) ConnectAsync(ctx context.Context, o Options, cb ConnectCallback) {
	goConnect(func() (*ethclient.Connection, error) { return c.Connect(ctx, o) }, cb)
}

// SyncConnect runs the handshake against the already configured session.
// A transport failure is handed to RetryConnect; any other failure resets
// the session and is returned as is.
func (c *Connector) SyncConnect(ctx context.Context, o Options) (*ethclient.Connection, error) {
	conn, err := c.handshake(ctx, o)
	if err == nil {
		return conn, nil
	}
	if errors.Is(err, ErrTransportUnreachable) {
		return c.RetryConnect(ctx, err, o)
	}
	c.session.Reset()
	connectFailures.Inc()
	c.log.Error("Connection handshake failed", "attempt", o.Attempts, "err", err)
	return nil, err
}

// AsyncConnect is the callback form of SyncConnect.
func (c *Connector) AsyncConnect(ctx context.Context, o Options, cb ConnectCallback) {
	goConnect(func() (*ethclient.Connection, error) { return c.SyncConnect(ctx, o) }, cb)
}

// RetryConnect applies the fallback policy after a failed pass.
//
// After a first pass, if fallback endpoints exist and NoFallback is unset, it
// runs Connect once more with Attempts incremented, which swaps in the
// fallback endpoints. Otherwise it resets the session and returns a
// FallbackError wrapping cause. At most one fallback pass is ever made.
func (c *Connector) RetryConnect(ctx context.Context, cause error, o Options) (*ethclient.Connection, error) {
	if o.CanFallback() {
		next := o
		next.Attempts++
		connectFallbacks.Inc()
		c.log.Warn("Connection failed, trying fallback endpoints", "hosted", next.FallbackHTTP, "ws", next.FallbackWS, "err", cause)
		return c.Connect(ctx, next)
	}
	c.session.Reset()
	connectFailures.Inc()
	c.log.Error("Connection failed", "attempts", o.Attempts+1, "noFallback", o.NoFallback, "err", cause)
	return nil, &FallbackError{Attempts: o.Attempts + 1, Err: cause}
}

// RetryConnectAsync is the callback form of RetryConnect.
func (c *Connector) RetryConnectAsync(ctx context.Context, cause error, o Options, cb ConnectCallback) {
	goConnect(func() (*ethclient.Connection, error) { return c.RetryConnect(ctx, cause, o) }, cb)
}

// handshake probes the node and pulls chain state into the session. The
// steps run strictly in order: binding needs the network ID and the sender
// needs the coinbase.
//
// The eth_blockNumber request after Connect is the handshake's own liveness
// check. It does not rely on the backend having probed while connecting.
func (c *Connector) handshake(ctx context.Context, o Options) (*ethclient.Connection, error) {
	logger := c.log.New("attempt", o.Attempts, "id", uuid.NewString())
	connectAttempts.Inc()

	transport := NewTransportConfig(o)
	logger.Debug("Connecting", "local", transport.Local, "hosted", transport.Hosted, "ws", transport.WS, "ipc", transport.IPC)
	established, err := c.backend.Connect(ctx, transport)
	if err != nil {
		return nil, &TransportError{Op: "connect", Attempt: o.Attempts, Err: err}
	}
	conn := transport.Connection()
	if established != nil {
		conn.Active = established.Active
	}
	if _, err := c.backend.BlockNumber(ctx); err != nil {
		return nil, &TransportError{Op: "blockNumber", Attempt: o.Attempts, Err: err}
	}

	if err := c.sync.SyncNetworkID(ctx); err != nil {
		return nil, withAttempt(err, o.Attempts)
	}
	switch err := c.sync.SyncCoinbase(ctx); {
	case errors.Is(err, ErrCoinbaseNotFound):
		logger.Warn("Node reports no coinbase", "from", c.session.From)
	case err != nil:
		return nil, withAttempt(err, o.Attempts)
	}
	if err := c.sync.SyncGasPrice(ctx); err != nil {
		return nil, withAttempt(err, o.Attempts)
	}

	c.session.SelectActiveContracts()
	if c.session.API.Functions != nil {
		c.session.BindFunctions()
	}
	if c.session.API.Events != nil {
		c.session.BindEvents()
	}
	c.session.BindSender("")

	c.session.Connection = conn.Clone()
	logger.Info("Connected", "active", conn.Active, "networkID", c.session.NetworkID, "from", c.session.From, "contracts", len(c.session.Contracts))
	return conn, nil
}

func withAttempt(err error, attempt int) error {
	var te *TransportError
	if errors.As(err, &te) {
		te.Attempt = attempt
	}
	return err
}
