package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thanhnp/web3relay/pkg/semver"
)

func TestSupportsTrace(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"Parity-Ethereum//v2.7.2-stable-2961d23-20200616/x86_64-linux-gnu/rustc1.44.1", true},
		{"Parity//v1.6.10-stable/x86_64-linux-gnu/rustc1.17.0", false},
		{"OpenEthereum//v3.3.5-stable/x86_64-linux-gnu/rustc1.52.1", true},
		{"CoreGeth/v1.12.14-stable/linux-amd64/go1.20", true},
		{"erigon/2.48.1/linux-amd64/go1.20.5", true},
		{"Geth/v1.13.15-stable/linux-amd64/go1.21.6", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportsTrace(semver.ParseClientVersion(tt.raw)))
		})
	}
}
