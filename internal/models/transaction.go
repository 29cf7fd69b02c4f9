package models

import "strconv"

// Transaction is the explorer transaction document. The persisted fields
// mirror what the ingestion process stores; the rest are derived per request.
type Transaction struct {
	Hash             string  `json:"hash" bson:"hash"`
	Nonce            uint64  `json:"nonce" bson:"nonce"`
	BlockHash        string  `json:"blockHash" bson:"blockHash"`
	BlockNumber      *uint64 `json:"blockNumber" bson:"blockNumber"`
	TransactionIndex uint64  `json:"transactionIndex" bson:"transactionIndex"`
	From             string  `json:"from" bson:"from"`
	To               string  `json:"to" bson:"to"`
	Creates          string  `json:"creates,omitempty" bson:"creates,omitempty"`
	Value            float64 `json:"value" bson:"value"` // ether
	Gas              uint64  `json:"gas" bson:"gas"`
	GasPrice         string  `json:"gasPrice" bson:"gasPrice"` // decimal wei
	GasUsed          uint64  `json:"gasUsed" bson:"gasUsed"`
	Status           *uint64 `json:"status,omitempty" bson:"status,omitempty"`
	Input            string  `json:"input" bson:"input"`
	Timestamp        uint64  `json:"timestamp" bson:"timestamp"`

	Confirmations int64    `json:"confirmations" bson:"-"`
	GasPriceGwei  float64  `json:"gasPriceGwei" bson:"-"`
	GasPriceEther float64  `json:"gasPriceEther" bson:"-"`
	TxFee         float64  `json:"txFee" bson:"-"`
	TxFeeUSD      *float64 `json:"txFeeUSD,omitempty" bson:"-"`
	ValueUSD      *float64 `json:"valueUSD,omitempty" bson:"-"`
	IsTrace       bool     `json:"isTrace" bson:"-"`
}

// Height returns the containing block number, 0 for a pending transaction.
func (t *Transaction) Height() uint64 {
	if t.BlockNumber == nil {
		return 0
	}
	return *t.BlockNumber
}

func uitoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}
