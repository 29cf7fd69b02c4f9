// Package units converts integer wei amounts to the display denominations
// shown by the explorer and back.
package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// precision is wide enough to hold any 256-bit wei amount exactly.
const precision = 512

// Denominations, expressed in wei.
var (
	Wei   = big.NewInt(params.Wei)
	GWei  = big.NewInt(params.GWei)
	Ether = big.NewInt(params.Ether)
)

// FromWei divides amount by unit, keeping full precision.
func FromWei(amount, unit *big.Int) *big.Float {
	if amount == nil {
		return new(big.Float).SetPrec(precision)
	}
	num := new(big.Float).SetPrec(precision).SetInt(amount)
	den := new(big.Float).SetPrec(precision).SetInt(unit)
	return num.Quo(num, den)
}

// ToWei multiplies amount by unit and rounds to the nearest wei.
func ToWei(amount *big.Float, unit *big.Int) *big.Int {
	v := new(big.Float).SetPrec(precision).Mul(amount, new(big.Float).SetPrec(precision).SetInt(unit))
	half := big.NewFloat(0.5)
	if v.Sign() < 0 {
		v.Sub(v, half)
	} else {
		v.Add(v, half)
	}
	out, _ := v.Int(nil)
	return out
}

// ToEther converts a wei amount to ether.
func ToEther(wei *big.Int) float64 {
	f, _ := FromWei(wei, Ether).Float64()
	return f
}

// ToGwei converts a wei amount to gwei.
func ToGwei(wei *big.Int) float64 {
	f, _ := FromWei(wei, GWei).Float64()
	return f
}

// EtherToWei converts an ether amount back to wei.
func EtherToWei(ether float64) *big.Int {
	return ToWei(new(big.Float).SetPrec(precision).SetFloat64(ether), Ether)
}

// ParseWei parses a decimal or 0x-prefixed hex wei amount.
func ParseWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
		if s == "" {
			return new(big.Int), nil
		}
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount %q", s)
	}
	return v, nil
}
