package models

// Market is a fiat quote for the chain's native unit.
type Market struct {
	Symbol    string  `json:"symbol" bson:"symbol"`
	Timestamp int64   `json:"timestamp" bson:"timestamp"`
	QuoteBTC  float64 `json:"quoteBTC" bson:"quoteBTC"`
	QuoteUSD  float64 `json:"quoteUSD" bson:"quoteUSD"`
}
