// Package connect establishes a connection to an Ethereum node and keeps a
// small session in sync with it.
//
// A Connector takes Options, picks a transport, runs the handshake and binds
// the contract API to the addresses of the network it found:
//
//	client := ethclient.New()
//	session := new(connect.Session)
//	c := connect.New(client, session)
//
//	conn, err := c.Connect(ctx, connect.Options{
//	    HTTP:         "http://127.0.0.1:8545",
//	    WS:           "ws://127.0.0.1:8546",
//	    FallbackHTTP: []string{"https://eth9000.example"},
//	    Contracts:    connect.ContractRegistry{"3": {"token": "0xC3"}},
//	    API:          api,
//	})
//
// # Handshake
//
// Each pass probes the node with eth_blockNumber, then syncs the network ID,
// the coinbase and the gas price, selects the contracts of the network, binds
// function and event addresses, and finally resolves the sender. A node
// without a coinbase is tolerated; the sender stays empty unless set in
// Options.
//
// # Fallback
//
// A transport failure on the first pass triggers exactly one more pass
// against the fallback endpoints (unless NoFallback is set). A second failure
// ends the attempt with a FallbackError. A failed attempt never leaves a
// partly filled session behind.
//
// # Calling conventions
//
// Every operation has a blocking form returning its error and an Async form
// that runs the same code on a goroutine and delivers the result to a
// callback exactly once. The session belongs to the operation until the
// callback runs.
package connect
