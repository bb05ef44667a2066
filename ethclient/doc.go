// Package ethclient provides the RPC client the connect package drives during
// a connection handshake.
//
// # Transports
//
// A Client starts without a transport (see New). Connect takes a
// TransportConfig and tries its endpoints in preference order:
//
//   - IPC path
//   - WebSocket URL
//   - the local HTTP endpoint
//   - each hosted (fallback) HTTP endpoint
//
// Every dialed endpoint is probed with eth_blockNumber before it is accepted.
// The returned Connection lists the endpoints of the pass and names the one
// that answered in Active.
//
// # Calls
//
// The client issues exactly the calls the handshake needs:
//
//   - Version: net_version
//   - Coinbase: eth_coinbase ("" when the node has no default account)
//   - GasPrice: eth_gasPrice (hex)
//   - BlockNumber: eth_blockNumber (hex)
//
// SetGasPrice and LastGasPrice hold the gas price last observed by the caller,
// so components that build transactions can read it without another request.
//
// # Usage
//
//	client := ethclient.New()
//	defer client.Close()
//
//	conn, err := client.Connect(ctx, ethclient.TransportConfig{
//	    Local: "http://127.0.0.1:8545",
//	    WS:    "ws://127.0.0.1:8546",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println("connected over", conn.Active)
package ethclient
