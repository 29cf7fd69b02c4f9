package models

import "github.com/ethereum/go-ethereum/common/hexutil"

// TraceAction is the "action" object of a parity-style trace. Only the
// fields matching the trace type are set.
type TraceAction struct {
	CallType      string       `json:"callType,omitempty"`
	From          string       `json:"from,omitempty"`
	To            string       `json:"to,omitempty"`
	Gas           *hexutil.Big `json:"gas,omitempty"`
	Input         string       `json:"input,omitempty"`
	Value         *hexutil.Big `json:"value,omitempty"`
	Init          string       `json:"init,omitempty"`
	Address       string       `json:"address,omitempty"`
	Balance       *hexutil.Big `json:"balance,omitempty"`
	RefundAddress string       `json:"refundAddress,omitempty"`
	Author        string       `json:"author,omitempty"`
	RewardType    string       `json:"rewardType,omitempty"`
}

// TraceResult is the "result" object of a trace.
type TraceResult struct {
	GasUsed *hexutil.Big `json:"gasUsed,omitempty"`
	Output  string       `json:"output,omitempty"`
	Address string       `json:"address,omitempty"`
	Code    string       `json:"code,omitempty"`
}

// Trace is one entry returned by trace_transaction or trace_filter. The
// flattened From/To/Value/Gas/GasUsed fields are filled by the trace filter.
type Trace struct {
	Action              TraceAction  `json:"action"`
	Result              *TraceResult `json:"result"`
	Error               string       `json:"error,omitempty"`
	BlockHash           string       `json:"blockHash"`
	BlockNumber         uint64       `json:"blockNumber"`
	Subtraces           int          `json:"subtraces"`
	TraceAddress        []int        `json:"traceAddress"`
	TransactionHash     string       `json:"transactionHash"`
	TransactionPosition *uint64      `json:"transactionPosition"`
	Type                string       `json:"type"`

	From    string   `json:"from,omitempty"`
	To      string   `json:"to,omitempty"`
	Value   *float64 `json:"value,omitempty"`
	Gas     *uint64  `json:"gas,omitempty"`
	GasUsed *uint64  `json:"gasUsed,omitempty"`
}
