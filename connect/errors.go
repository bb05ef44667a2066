package connect

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure conditions of a connection attempt.
var (
	// ErrCoinbaseNotFound indicates the node reported no default account.
	// The session is left unmodified; it never triggers a fallback.
	ErrCoinbaseNotFound = errors.New("[connect] setCoinbase: coinbase not found")

	// ErrTransportUnreachable indicates the node could not be reached or stopped
	// answering mid-handshake. It is the only condition that triggers a fallback.
	ErrTransportUnreachable = errors.New("[connect] connect: transport unreachable")

	// ErrFallbackExhausted indicates the attempt failed after the fallback pass,
	// or that a fallback pass was not permitted.
	ErrFallbackExhausted = errors.New("[connect] retryConnect: fallback exhausted")

	// ErrInvalidOptions indicates the options failed validation in Configure.
	ErrInvalidOptions = errors.New("[connect] configure: invalid options")
)

// TransportError reports a failed request to the node during operation Op.
type TransportError struct {
	Op      string
	Attempt int
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("[connect] %s: transport unreachable (attempt %d): %v", e.Op, e.Attempt, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports ErrTransportUnreachable as a match.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransportUnreachable
}

// FallbackError is the terminal error of Connect. Err is the failure of the
// last attempt made.
type FallbackError struct {
	Attempts int
	Err      error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("[connect] retryConnect: fallback exhausted after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *FallbackError) Unwrap() error {
	return e.Err
}

func (e *FallbackError) Is(target error) bool {
	return target == ErrFallbackExhausted
}

// DecodeError reports a reply from the node that could not be decoded.
type DecodeError struct {
	Op    string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("[connect] %s: cannot decode %q: %v", e.Op, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
