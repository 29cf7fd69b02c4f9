package models

// Block is an explorer block, as cached by the ingestion process or decoded
// from the node. Uncles share this shape.
type Block struct {
	Number           uint64   `json:"number" bson:"number"`
	Hash             string   `json:"hash" bson:"hash"`
	ParentHash       string   `json:"parentHash" bson:"parentHash"`
	Nonce            string   `json:"nonce" bson:"nonce"`
	Sha3Uncles       string   `json:"sha3Uncles" bson:"sha3Uncles"`
	LogsBloom        string   `json:"logsBloom" bson:"logsBloom"`
	TransactionsRoot string   `json:"transactionsRoot" bson:"transactionsRoot"`
	StateRoot        string   `json:"stateRoot" bson:"stateRoot"`
	ReceiptsRoot     string   `json:"receiptsRoot" bson:"receiptsRoot"`
	Miner            string   `json:"miner" bson:"miner"`
	Difficulty       string   `json:"difficulty" bson:"difficulty"`           // decimal
	TotalDifficulty  string   `json:"totalDifficulty" bson:"totalDifficulty"` // decimal
	Size             uint64   `json:"size" bson:"size"`
	ExtraData        string   `json:"extraData" bson:"extraData"`
	GasLimit         uint64   `json:"gasLimit" bson:"gasLimit"`
	GasUsed          uint64   `json:"gasUsed" bson:"gasUsed"`
	Timestamp        uint64   `json:"timestamp" bson:"timestamp"`
	BlockTime        float64  `json:"blockTime,omitempty" bson:"blockTime,omitempty"`
	Uncles           []string `json:"uncles" bson:"uncles"`
	Transactions     []string `json:"transactions" bson:"transactions"`

	// Extra is extraData rendered as printable ASCII by the block filter.
	Extra string `json:"extra,omitempty" bson:"-"`
}

// BlockRef addresses a block either by hash or by number.
type BlockRef struct {
	Hash   string
	Number uint64
}

// IsHash reports whether the reference is a block hash.
func (r BlockRef) IsHash() bool {
	return r.Hash != ""
}

func (r BlockRef) String() string {
	if r.IsHash() {
		return r.Hash
	}
	return uitoa(r.Number)
}
