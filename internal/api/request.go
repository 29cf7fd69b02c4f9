package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/thanhnp/web3relay/internal/api/handlers"
)

// ErrUnrecognized is returned for a body carrying none of the known keys or
// an unknown action.
var ErrUnrecognized = errors.New("unrecognized request")

// Request is one parsed relay request. Exactly one concrete type per kind.
type Request interface {
	Kind() string
}

type (
	// TxRequest looks up a transaction ("tx").
	TxRequest struct{ Hash string }
	// SendRequest broadcasts a signed transaction ("tx_send").
	SendRequest struct{ Raw string }
	// TxTraceRequest traces a transaction ("tx_trace").
	TxTraceRequest struct{ Hash string }
	// AddrTraceRequest lists traces sent to an address ("addr_trace").
	AddrTraceRequest struct{ Addr string }
	// AddrRequest reads account state ("addr" with "options").
	AddrRequest struct {
		Addr    string
		Options handlers.AddressOptions
	}
	// BlockRequest looks up a block by hash or number ("block").
	BlockRequest struct{ Ref string }
	// UncleRequest looks up an uncle, "<block>/<index>" ("uncle").
	UncleRequest struct{ Ref string }
	// HashrateRequest asks for network statistics ("action": "hashrate").
	HashrateRequest struct{}
)

func (TxRequest) Kind() string        { return "tx" }
func (SendRequest) Kind() string      { return "tx_send" }
func (TxTraceRequest) Kind() string   { return "tx_trace" }
func (AddrTraceRequest) Kind() string { return "addr_trace" }
func (AddrRequest) Kind() string      { return "addr" }
func (BlockRequest) Kind() string     { return "block" }
func (UncleRequest) Kind() string     { return "uncle" }
func (HashrateRequest) Kind() string  { return "hashrate" }

// keyOrder is the priority in which body keys are honoured.
var keyOrder = []string{"tx", "tx_send", "tx_trace", "addr_trace", "addr", "block", "uncle", "action"}

// ParseRequest picks the first known key present in body and builds the
// matching request.
func ParseRequest(body map[string]json.RawMessage) (Request, error) {
	for _, key := range keyOrder {
		raw, ok := body[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %q must be a string", ErrUnrecognized, key)
		}
		switch key {
		case "tx":
			return TxRequest{Hash: strings.ToLower(s)}, nil
		case "tx_send":
			return SendRequest{Raw: s}, nil
		case "tx_trace":
			return TxTraceRequest{Hash: strings.ToLower(s)}, nil
		case "addr_trace":
			return AddrTraceRequest{Addr: strings.ToLower(s)}, nil
		case "addr":
			opts, err := parseAddressOptions(body["options"])
			if err != nil {
				return nil, err
			}
			return AddrRequest{Addr: strings.ToLower(s), Options: opts}, nil
		case "block":
			return BlockRequest{Ref: s}, nil
		case "uncle":
			return UncleRequest{Ref: s}, nil
		case "action":
			if s == "hashrate" {
				return HashrateRequest{}, nil
			}
			return nil, fmt.Errorf("%w: action %q", ErrUnrecognized, s)
		}
	}
	return nil, ErrUnrecognized
}

// parseAddressOptions accepts a list of option names or a comma separated
// string. A missing value selects nothing.
func parseAddressOptions(raw json.RawMessage) (handlers.AddressOptions, error) {
	var opts handlers.AddressOptions
	if len(raw) == 0 || string(raw) == "null" {
		return opts, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return opts, fmt.Errorf("%w: options must be a list of strings", ErrUnrecognized)
		}
		names = strings.Split(s, ",")
	}
	for _, name := range names {
		switch strings.TrimSpace(name) {
		case "balance":
			opts.Balance = true
		case "count":
			opts.Count = true
		case "bytecode":
			opts.Bytecode = true
		}
	}
	return opts, nil
}
