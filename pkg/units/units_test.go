package units

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEther(t *testing.T) {
	tests := []struct {
		name string
		wei  string
		want float64
	}{
		{"zero", "0", 0},
		{"one_ether", "1000000000000000000", 1},
		{"fraction", "1500000000000000000", 1.5},
		{"one_wei", "1", 1e-18},
		{"large", "123456789000000000000000", 123456.789},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wei, ok := new(big.Int).SetString(tt.wei, 10)
			require.True(t, ok)
			assert.InDelta(t, tt.want, ToEther(wei), tt.want*1e-12+1e-30)
		})
	}
}

func TestToGwei(t *testing.T) {
	assert.Equal(t, 20.0, ToGwei(big.NewInt(20_000_000_000)))
	assert.Equal(t, 0.0, ToGwei(nil))
}

func TestEtherRoundTrip(t *testing.T) {
	amounts := []string{
		"0",
		"1",
		"21000",
		"1000000000000000000",
		"987654321012345678",
		"340282366920938463463374607431768211455",
	}
	for _, s := range amounts {
		wei, _ := new(big.Int).SetString(s, 10)
		back := EtherToWei(ToEther(wei))

		// float64 keeps ~15 significant digits
		diff := new(big.Float).SetInt(new(big.Int).Sub(back, wei))
		tol := new(big.Float).Mul(new(big.Float).SetInt(wei), big.NewFloat(1e-15))
		if tol.Cmp(big.NewFloat(1)) < 0 {
			tol = big.NewFloat(1)
		}
		diff.Abs(diff)
		assert.True(t, diff.Cmp(tol) <= 0, "round trip of %s gave %s", s, back)
	}
}

func TestFromWeiExact(t *testing.T) {
	wei, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	got := ToWei(FromWei(wei, Ether), Ether)
	assert.Equal(t, 0, wei.Cmp(got))
}

func TestParseWei(t *testing.T) {
	v, err := ParseWei("0x1bc16d674ec80000")
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000", v.String())

	v, err = ParseWei("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int64())

	v, err = ParseWei("")
	require.NoError(t, err)
	assert.Zero(t, v.Sign())

	_, err = ParseWei("12ab")
	assert.Error(t, err)

	assert.False(t, math.IsNaN(ToEther(v)))
}
