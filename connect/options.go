package connect

import (
	"fmt"
	"slices"

	validator "gopkg.in/go-playground/validator.v9"

	"ethconnect/ethclient"
)

var validate = validator.New()

// Options configures a connection attempt.
type Options struct {
	// HTTP is the preferred (local) HTTP endpoint.
	HTTP string `json:"http" validate:"omitempty,url"`
	// WS is the preferred WebSocket URL.
	WS string `json:"ws" validate:"omitempty,url"`
	// IPC is the preferred IPC socket path.
	IPC string `json:"ipc"`

	// FallbackHTTP lists the hosted HTTP endpoints tried on the fallback pass.
	FallbackHTTP []string `json:"fallbackHttp" validate:"omitempty,dive,url"`
	// FallbackWS is the hosted WebSocket URL tried on the fallback pass.
	FallbackWS string `json:"fallbackWs" validate:"omitempty,url"`

	API       API              `json:"api"`
	Contracts ContractRegistry `json:"contracts"`
	// From pre-seeds the session sender.
	From string `json:"from"`

	// NoFallback forbids the fallback pass.
	NoFallback bool `json:"noFallback"`
	// Attempts counts the passes already made; 0 on the first pass.
	Attempts int `json:"attempts" validate:"gte=0"`
}

// Validate checks o's endpoints and attempt counter.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// CanFallback reports whether a failed pass made with o may be followed by a
// fallback pass.
func (o Options) CanFallback() bool {
	return o.Attempts == 0 && !o.NoFallback && len(o.FallbackHTTP) > 0
}

// NewTransportConfig derives the endpoints for the pass described by o.
//
// The first pass, and any pass with NoFallback set, uses the preferred
// endpoints. Later passes drop the local endpoint and the IPC path and use the
// hosted fallback endpoints instead.
func NewTransportConfig(o Options) ethclient.TransportConfig {
	if o.Attempts > 0 && !o.NoFallback {
		hosted := slices.Clone(o.FallbackHTTP)
		if hosted == nil {
			hosted = []string{}
		}
		return ethclient.TransportConfig{
			Hosted: hosted,
			WS:     o.FallbackWS,
		}
	}
	return ethclient.TransportConfig{
		Local:  o.HTTP,
		Hosted: []string{},
		WS:     o.WS,
		IPC:    o.IPC,
	}
}
