package connect

import (
	"maps"
	"slices"

	"ethconnect/ethclient"
)

// Contracts maps a contract name to its address on one network.
type Contracts map[string]string

// ContractRegistry maps a network identifier to the contracts deployed on it.
type ContractRegistry map[string]Contracts

// CallDescriptor describes one contract method. To and From are filled in by
// binding; the remaining fields are carried through untouched.
type CallDescriptor struct {
	To        string   `json:"to,omitempty"`
	From      string   `json:"from,omitempty"`
	Name      string   `json:"name,omitempty"`
	Signature []string `json:"signature,omitempty"`
	Inputs    []string `json:"inputs,omitempty"`
	Returns   string   `json:"returns,omitempty"`
	Send      bool     `json:"send,omitempty"`
}

// EventDescriptor describes one contract event. Address is filled in by binding.
type EventDescriptor struct {
	Address   string   `json:"address,omitempty"`
	Contract  string   `json:"contract"`
	Name      string   `json:"name,omitempty"`
	Signature string   `json:"signature,omitempty"`
	Inputs    []string `json:"inputs,omitempty"`
}

// Functions maps contract name -> method name -> call descriptor.
type Functions map[string]map[string]CallDescriptor

// Events maps event name -> event descriptor.
type Events map[string]EventDescriptor

// API is the contract call surface. A nil table is left alone by binding.
type API struct {
	Functions Functions `json:"functions"`
	Events    Events    `json:"events"`
}

// Session is the state kept in sync with the connected node.
//
// A Session is mutated in place by a Connector and its Synchronizer. It is not
// safe for concurrent use; an asynchronous operation owns the session until
// its callback runs.
type Session struct {
	From       string                `json:"from"`
	Coinbase   string                `json:"coinbase"`
	NetworkID  string                `json:"networkID"`
	Contracts  Contracts             `json:"contracts"`
	Registry   ContractRegistry      `json:"allContracts"`
	API        API                   `json:"api"`
	Connection *ethclient.Connection `json:"connection"`
}

// Reset returns every field to its zero value. It is idempotent.
func (s *Session) Reset() {
	*s = Session{}
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	return &Session{
		From:       s.From,
		Coinbase:   s.Coinbase,
		NetworkID:  s.NetworkID,
		Contracts:  maps.Clone(s.Contracts),
		Registry:   s.Registry.Clone(),
		API:        s.API.Clone(),
		Connection: s.Connection.Clone(),
	}
}

// Clone returns a deep copy of r.
func (r ContractRegistry) Clone() ContractRegistry {
	if r == nil {
		return nil
	}
	out := make(ContractRegistry, len(r))
	for id, contracts := range r {
		out[id] = maps.Clone(contracts)
	}
	return out
}

// Clone returns a deep copy of a.
func (a API) Clone() API {
	return API{Functions: a.Functions.Clone(), Events: a.Events.Clone()}
}

// Clone returns a deep copy of f.
func (f Functions) Clone() Functions {
	if f == nil {
		return nil
	}
	out := make(Functions, len(f))
	for contract, methods := range f {
		if methods == nil {
			out[contract] = nil
			continue
		}
		m := make(map[string]CallDescriptor, len(methods))
		for name, d := range methods {
			d.Signature = slices.Clone(d.Signature)
			d.Inputs = slices.Clone(d.Inputs)
			m[name] = d
		}
		out[contract] = m
	}
	return out
}

// Clone returns a deep copy of e.
func (e Events) Clone() Events {
	if e == nil {
		return nil
	}
	out := make(Events, len(e))
	for name, d := range e {
		d.Inputs = slices.Clone(d.Inputs)
		out[name] = d
	}
	return out
}
