package connect

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// Synchronizer pulls chain values from a Backend into a Session. Each Sync
// method issues exactly one request and writes exactly one piece of state.
// Every method has an Async form that runs the same work on a goroutine and
// reports its error through a Callback.
type Synchronizer struct {
	backend Backend
	session *Session
	log     log.Logger
}

// NewSynchronizer returns a Synchronizer writing into session.
func NewSynchronizer(backend Backend, session *Session, logger log.Logger) *Synchronizer {
	if logger == nil {
		logger = log.Root()
	}
	return &Synchronizer{backend: backend, session: session, log: logger}
}

// SyncNetworkID stores the node's network identifier. An unchanged identifier
// is simply written again.
func (s *Synchronizer) SyncNetworkID(ctx context.Context) error {
	id, err := s.backend.Version(ctx)
	if err != nil {
		return &TransportError{Op: "setNetworkID", Err: err}
	}
	s.session.NetworkID = id
	s.log.Debug("Synced network ID", "networkID", id)
	return nil
}

// SyncNetworkIDAsync is the callback form of SyncNetworkID.
func (s *Synchronizer) SyncNetworkIDAsync(ctx context.Context, cb Callback) {
	goAsync(func() error { return s.SyncNetworkID(ctx) }, cb)
}

// SyncCoinbase stores the node's coinbase and, when the session has no
// sender yet, adopts it as the sender.
//
// A missing coinbase ("", "0x" or the zero address) yields
// ErrCoinbaseNotFound and leaves Coinbase and From untouched.
func (s *Synchronizer) SyncCoinbase(ctx context.Context) error {
	coinbase, err := s.backend.Coinbase(ctx)
	if err != nil {
		return &TransportError{Op: "setCoinbase", Err: err}
	}
	if missingCoinbase(coinbase) {
		return ErrCoinbaseNotFound
	}
	s.session.Coinbase = coinbase
	if s.session.From == "" {
		s.session.BindSender("")
	}
	s.log.Debug("Synced coinbase", "coinbase", coinbase, "from", s.session.From)
	return nil
}

func missingCoinbase(coinbase string) bool {
	if coinbase == "" || coinbase == "0x" {
		return true
	}
	return common.IsHexAddress(coinbase) && common.HexToAddress(coinbase) == (common.Address{})
}

// SyncCoinbaseAsync is the callback form of SyncCoinbase.
func (s *Synchronizer) SyncCoinbaseAsync(ctx context.Context, cb Callback) {
	goAsync(func() error { return s.SyncCoinbase(ctx) }, cb)
}

// SyncGasPrice decodes eth_gasPrice and stores it on the backend. The session
// is not touched.
func (s *Synchronizer) SyncGasPrice(ctx context.Context) error {
	raw, err := s.backend.GasPrice(ctx)
	if err != nil {
		return &TransportError{Op: "setGasPrice", Err: err}
	}
	price, err := hexutil.DecodeBig(raw)
	if err != nil {
		return &DecodeError{Op: "setGasPrice", Value: raw, Err: err}
	}
	s.backend.SetGasPrice(price)
	wei, _ := new(big.Float).SetInt(price).Float64()
	gasPriceGauge.Set(wei)
	s.log.Debug("Synced gas price", "wei", price)
	return nil
}

// SyncGasPriceAsync is the callback form of SyncGasPrice.
func (s *Synchronizer) SyncGasPriceAsync(ctx context.Context, cb Callback) {
	goAsync(func() error { return s.SyncGasPrice(ctx) }, cb)
}

// SyncFrom overrides the sender stamped on every method; see Session.BindSender.
// It never fails and issues no request.
func (s *Synchronizer) SyncFrom(account string) error {
	s.session.BindSender(account)
	return nil
}

// SyncFromAsync is the callback form of SyncFrom.
func (s *Synchronizer) SyncFromAsync(account string, cb Callback) {
	goAsync(func() error { return s.SyncFrom(account) }, cb)
}
