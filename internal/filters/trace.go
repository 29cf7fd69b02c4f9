package filters

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/thanhnp/web3relay/internal/models"
	"github.com/thanhnp/web3relay/pkg/units"
)

// Traces flattens each trace's action/result into top-level from, to,
// value (ether), gas and gasUsed fields.
func Traces(traces []models.Trace) []models.Trace {
	out := make([]models.Trace, len(traces))
	for i, t := range traces {
		if t.Type == "suicide" {
			if t.Action.Address != "" {
				t.From = t.Action.Address
			}
			if t.Action.Balance != nil {
				t.Value = ether(t.Action.Balance)
			}
			if t.Action.RefundAddress != "" {
				t.To = t.Action.RefundAddress
			}
		} else {
			if t.Action.To != "" {
				t.To = t.Action.To
			}
			t.From = t.Action.From
			if t.Action.Gas != nil {
				gas := t.Action.Gas.ToInt().Uint64()
				t.Gas = &gas
			}
			if t.Result != nil {
				if t.Result.GasUsed != nil {
					used := t.Result.GasUsed.ToInt().Uint64()
					t.GasUsed = &used
				}
				// contract creation
				if t.Result.Address != "" {
					t.To = t.Result.Address
				}
			}
			t.Value = ether(t.Action.Value)
		}
		out[i] = t
	}
	return out
}

func ether(v *hexutil.Big) *float64 {
	var wei *big.Int
	if v != nil {
		wei = v.ToInt()
	}
	f := units.ToEther(wei)
	return &f
}
