package connect

import "ethconnect/ethclient"

// Callback receives the outcome of an asynchronous operation exactly once.
type Callback func(err error)

// ConnectCallback receives the outcome of an asynchronous connect exactly once.
// conn is nil whenever err is not.
type ConnectCallback func(conn *ethclient.Connection, err error)

// goAsync runs fn on its own goroutine and hands its error to cb.
// The blocking and callback forms of every operation share fn.
func goAsync(fn func() error, cb Callback) {
	go func() {
		err := fn()
		if cb != nil {
			cb(err)
		}
	}()
}

func goConnect(fn func() (*ethclient.Connection, error), cb ConnectCallback) {
	go func() {
		conn, err := fn()
		if cb != nil {
			cb(conn, err)
		}
	}()
}
