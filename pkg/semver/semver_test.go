package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse("v1.12.14-stable")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Major)
	assert.Equal(t, 12, v.Minor)
	assert.Equal(t, 14, v.Patch)
	assert.Equal(t, "stable", v.Prerelease)
	assert.Equal(t, "1.12.14-stable", v.String())

	_, err = Parse("linux-amd64")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	a := MustParse("2.7.2")
	b := MustParse("2.10.0")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(MustParse("v2.7.2")))
	assert.True(t, MustParse("1.0.0").GreaterThanOrEqual(MustParse("1.0.0-rc1")))
}

func TestParseClientVersion(t *testing.T) {
	tests := []struct {
		raw     string
		family  string
		version string
	}{
		{"Parity-Ethereum//v2.7.2-stable-2662d19-20200206/x86_64-unknown-linux-gnu/rustc1.41.0", "parity", "2.7.2-stable-2662d19-20200206"},
		{"CoreGeth/v1.12.14-stable/linux-amd64/go1.20", "coregeth", "1.12.14-stable"},
		{"Geth/v1.13.5-stable-916d6a44/linux-amd64/go1.21.4", "geth", "1.13.5-stable-916d6a44"},
		{"OpenEthereum//v3.3.5-stable/x86_64-linux-gnu/rustc1.59.0", "openethereum", "3.3.5-stable"},
		{"SomeClient", "someclient", ""},
	}
	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			cv := ParseClientVersion(tt.raw)
			assert.Equal(t, tt.family, cv.Family())
			if tt.version == "" {
				assert.Nil(t, cv.Version)
				return
			}
			require.NotNil(t, cv.Version)
			assert.Equal(t, tt.version, cv.Version.String())
		})
	}
}

func TestAtLeast(t *testing.T) {
	cv := ParseClientVersion("CoreGeth/v1.12.14-stable/linux-amd64/go1.20")
	assert.True(t, cv.AtLeast(MustParse("1.11.0")))
	assert.False(t, cv.AtLeast(MustParse("1.13.0")))
	assert.False(t, ParseClientVersion("Unknown").AtLeast(MustParse("0.0.1")))
}
