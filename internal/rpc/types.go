package rpc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/thanhnp/web3relay/internal/models"
)

// Transaction is a node transaction with amounts still in wei.
type Transaction struct {
	Hash             string
	Nonce            uint64
	BlockHash        string
	BlockNumber      *uint64 // nil while pending
	TransactionIndex uint64
	From             string
	To               string // empty for contract creation
	Value            *big.Int
	Gas              uint64
	GasPrice         *big.Int
	Input            string
}

// Receipt holds the receipt fields the relay reads.
type Receipt struct {
	GasUsed         uint64
	Status          *uint64 // absent before Byzantium
	ContractAddress string
}

type rpcTransaction struct {
	Hash             string          `json:"hash"`
	Nonce            hexutil.Uint64  `json:"nonce"`
	BlockHash        *string         `json:"blockHash"`
	BlockNumber      *hexutil.Uint64 `json:"blockNumber"`
	TransactionIndex *hexutil.Uint64 `json:"transactionIndex"`
	From             string          `json:"from"`
	To               *string         `json:"to"`
	Value            *hexutil.Big    `json:"value"`
	Gas              hexutil.Uint64  `json:"gas"`
	GasPrice         *hexutil.Big    `json:"gasPrice"`
	Input            string          `json:"input"`
}

type rpcReceipt struct {
	GasUsed         hexutil.Uint64  `json:"gasUsed"`
	Status          *hexutil.Uint64 `json:"status"`
	ContractAddress *string         `json:"contractAddress"`
}

type rpcBlock struct {
	Number           hexutil.Uint64 `json:"number"`
	Hash             string         `json:"hash"`
	ParentHash       string         `json:"parentHash"`
	Nonce            string         `json:"nonce"`
	Sha3Uncles       string         `json:"sha3Uncles"`
	LogsBloom        string         `json:"logsBloom"`
	TransactionsRoot string         `json:"transactionsRoot"`
	StateRoot        string         `json:"stateRoot"`
	ReceiptsRoot     string         `json:"receiptsRoot"`
	Miner            string         `json:"miner"`
	Difficulty       *hexutil.Big   `json:"difficulty"`
	TotalDifficulty  *hexutil.Big   `json:"totalDifficulty"`
	Size             hexutil.Uint64 `json:"size"`
	ExtraData        string         `json:"extraData"`
	GasLimit         hexutil.Uint64 `json:"gasLimit"`
	GasUsed          hexutil.Uint64 `json:"gasUsed"`
	Timestamp        hexutil.Uint64 `json:"timestamp"`
	Uncles           []string       `json:"uncles"`
	Transactions     []string       `json:"transactions"`
}

func (t *rpcTransaction) toTransaction() *Transaction {
	tx := &Transaction{
		Hash:     t.Hash,
		Nonce:    uint64(t.Nonce),
		From:     t.From,
		Gas:      uint64(t.Gas),
		Input:    t.Input,
		Value:    new(big.Int),
		GasPrice: new(big.Int),
	}
	if t.BlockHash != nil {
		tx.BlockHash = *t.BlockHash
	}
	if t.BlockNumber != nil {
		n := uint64(*t.BlockNumber)
		tx.BlockNumber = &n
	}
	if t.TransactionIndex != nil {
		tx.TransactionIndex = uint64(*t.TransactionIndex)
	}
	if t.To != nil {
		tx.To = *t.To
	}
	if t.Value != nil {
		tx.Value = t.Value.ToInt()
	}
	if t.GasPrice != nil {
		tx.GasPrice = t.GasPrice.ToInt()
	}
	return tx
}

func (r *rpcReceipt) toReceipt() *Receipt {
	rc := &Receipt{GasUsed: uint64(r.GasUsed)}
	if r.Status != nil {
		s := uint64(*r.Status)
		rc.Status = &s
	}
	if r.ContractAddress != nil {
		rc.ContractAddress = *r.ContractAddress
	}
	return rc
}

// toBlock converts the node's block into the explorer model. Difficulties
// are rendered in decimal.
func (b *rpcBlock) toBlock() *models.Block {
	block := &models.Block{
		Number:           uint64(b.Number),
		Hash:             b.Hash,
		ParentHash:       b.ParentHash,
		Nonce:            b.Nonce,
		Sha3Uncles:       b.Sha3Uncles,
		LogsBloom:        b.LogsBloom,
		TransactionsRoot: b.TransactionsRoot,
		StateRoot:        b.StateRoot,
		ReceiptsRoot:     b.ReceiptsRoot,
		Miner:            b.Miner,
		Difficulty:       bigString(b.Difficulty),
		TotalDifficulty:  bigString(b.TotalDifficulty),
		Size:             uint64(b.Size),
		ExtraData:        b.ExtraData,
		GasLimit:         uint64(b.GasLimit),
		GasUsed:          uint64(b.GasUsed),
		Timestamp:        uint64(b.Timestamp),
		Uncles:           b.Uncles,
		Transactions:     b.Transactions,
	}
	if block.Uncles == nil {
		block.Uncles = []string{}
	}
	if block.Transactions == nil {
		block.Transactions = []string{}
	}
	return block
}

func bigString(v *hexutil.Big) string {
	if v == nil {
		return "0"
	}
	return v.ToInt().String()
}
