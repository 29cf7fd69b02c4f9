package handlers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/thanhnp/web3relay/internal/models"
)

var blockHashRegex = regexp.MustCompile(`(?i)^(0x)?[0-9a-f]{64}$`)

// ParseBlockRef reads a block hash (64 hex chars, optional 0x) or a block
// number. Numbers follow parseInt rules: leading whitespace and trailing
// garbage are ignored and a 0x prefix selects hex.
func ParseBlockRef(s string) (models.BlockRef, bool) {
	s = strings.TrimSpace(s)
	if blockHashRegex.MatchString(s) {
		return models.BlockRef{Hash: common.HexToHash(s).Hex()}, true
	}
	n, ok := parseInt(s)
	if !ok || n < 0 {
		return models.BlockRef{}, false
	}
	return models.BlockRef{Number: uint64(n)}, true
}

// ParseUncleRef reads "<blockRef>/<index>". A missing or unparsable index
// is 0.
func ParseUncleRef(s string) (models.BlockRef, uint64, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	ref, ok := ParseBlockRef(parts[0])
	if !ok {
		return models.BlockRef{}, 0, false
	}
	var index uint64
	if len(parts) > 1 {
		if n, ok := parseInt(parts[1]); ok && n > 0 {
			index = uint64(n)
		}
	}
	return ref, index, true
}

func parseInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')):
		return true
	}
	return false
}
