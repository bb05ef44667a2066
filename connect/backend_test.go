package connect

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"ethconnect/ethclient"
)

// fakeBackend answers the handshake with fixed chain values and records the
// requests it receives.
type fakeBackend struct {
	mu sync.Mutex

	networkID   string
	coinbase    string
	gasPrice    string
	blockNumber string

	// connectErrs is consumed one entry per Connect call; a nil entry succeeds.
	connectErrs []error
	probeErr    error
	versionErr  error
	coinbaseErr error
	gasPriceErr error

	transports []ethclient.TransportConfig
	calls      []string
	price      *big.Int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		networkID:   "3",
		coinbase:    "0xb0b",
		gasPrice:    "0x4a817c801",
		blockNumber: "0x2328",
	}
}

func (f *fakeBackend) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Connect(ctx context.Context, cfg ethclient.TransportConfig) (*ethclient.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("connect")
	f.transports = append(f.transports, cfg)
	if len(f.connectErrs) > 0 {
		err := f.connectErrs[0]
		f.connectErrs = f.connectErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	conn := cfg.Connection()
	switch {
	case cfg.IPC != "":
		conn.Active = cfg.IPC
	case cfg.WS != "":
		conn.Active = cfg.WS
	case len(conn.HTTP) > 0:
		conn.Active = conn.HTTP[0]
	default:
		return nil, ethclient.ErrNoEndpoints
	}
	return conn, nil
}

func (f *fakeBackend) BlockNumber(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("eth_blockNumber")
	return f.blockNumber, f.probeErr
}

func (f *fakeBackend) Version(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("net_version")
	return f.networkID, f.versionErr
}

func (f *fakeBackend) Coinbase(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("eth_coinbase")
	return f.coinbase, f.coinbaseErr
}

func (f *fakeBackend) GasPrice(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("eth_gasPrice")
	return f.gasPrice, f.gasPriceErr
}

func (f *fakeBackend) SetGasPrice(price *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.price = price
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) Transports() []ethclient.TransportConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ethclient.TransportConfig(nil), f.transports...)
}

const callbackTimeout = 5 * time.Second

// wait runs an asynchronous operation and returns the error its callback got.
func wait(t *testing.T, run func(cb Callback)) error {
	t.Helper()
	done := make(chan error, 1)
	run(func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-time.After(callbackTimeout):
		t.Fatal("callback was not invoked")
		return nil
	}
}

// waitConnect runs an asynchronous connect and returns what its callback got.
func waitConnect(t *testing.T, run func(cb ConnectCallback)) (*ethclient.Connection, error) {
	t.Helper()
	type result struct {
		conn *ethclient.Connection
		err  error
	}
	done := make(chan result, 1)
	run(func(conn *ethclient.Connection, err error) { done <- result{conn, err} })
	select {
	case r := <-done:
		return r.conn, r.err
	case <-time.After(callbackTimeout):
		t.Fatal("callback was not invoked")
		return nil, nil
	}
}

// fixture builders shared by the tests.

func registry3() ContractRegistry {
	return ContractRegistry{
		"3": {"contract1": "0xc1", "contract2": "0xc2"},
	}
}

func unboundFunctions() Functions {
	return Functions{
		"contract1": {"method1": {}, "method2": {}},
		"contract2": {"method1": {}},
	}
}

func unboundEvents() Events {
	return Events{
		"event1": {Contract: "contract1"},
		"event2": {Contract: "contract1"},
		"event3": {Contract: "contract2"},
	}
}
