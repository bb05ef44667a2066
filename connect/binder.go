package connect

import (
	"maps"
	"strings"
)

// SelectActiveContracts sets Contracts to the registry entry for NetworkID.
// Contracts becomes nil when the registry has no entry for the network.
func (s *Session) SelectActiveContracts() {
	s.Contracts = maps.Clone(s.Registry[s.NetworkID])
}

// BindFunctions points every method of each active contract at the contract's
// lowercased address. Other descriptor fields, including From, are kept.
// Contracts without an active address are left as they are.
func (s *Session) BindFunctions() {
	if s.API.Functions == nil {
		return
	}
	for contract, methods := range s.API.Functions {
		addr, ok := s.Contracts[contract]
		if !ok {
			continue
		}
		to := strings.ToLower(addr)
		for name, d := range methods {
			d.To = to
			methods[name] = d
		}
	}
}

// BindEvents sets the address of every event whose contract is active to the
// contract's lowercased address.
func (s *Session) BindEvents() {
	if s.API.Events == nil {
		return
	}
	for name, e := range s.API.Events {
		addr, ok := s.Contracts[e.Contract]
		if !ok {
			continue
		}
		e.Address = strings.ToLower(addr)
		s.API.Events[name] = e
	}
}

// BindSender resolves the session sender and stamps it on every method.
//
// From is only filled when empty: with account if given, else with Coinbase.
// An explicitly set From is never replaced. Methods are stamped with account
// when given, otherwise with From.
func (s *Session) BindSender(account string) {
	if s.From == "" {
		s.From = account
		if s.From == "" {
			s.From = s.Coinbase
		}
	}
	sender := account
	if sender == "" {
		sender = s.From
	}
	for _, methods := range s.API.Functions {
		for name, d := range methods {
			d.From = sender
			methods[name] = d
		}
	}
}
