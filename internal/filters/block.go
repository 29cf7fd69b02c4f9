// Package filters reshapes raw chain objects into the explorer's public
// JSON shape.
package filters

import (
	"encoding/hex"
	"strings"

	"github.com/thanhnp/web3relay/internal/models"
)

// Block fills the derived display fields of b in place and returns it.
func Block(b *models.Block) *models.Block {
	if b == nil {
		return nil
	}
	b.Miner = strings.ToLower(b.Miner)
	b.Extra = hexToASCII(b.ExtraData)
	if b.Transactions == nil {
		b.Transactions = []string{}
	}
	if b.Uncles == nil {
		b.Uncles = []string{}
	}
	return b
}

// hexToASCII decodes a hex string and keeps only printable ASCII bytes.
func hexToASCII(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = s[:len(s)-1]
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range raw {
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
