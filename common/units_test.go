package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToWei(t *testing.T) {
	wei := ToWei(big.NewInt(3))
	assert.Equal(t, "3000000000000000000", wei.String())
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "3", FormatUnits(ToWei(big.NewInt(3))))
	assert.Equal(t, "0.5", FormatUnits(big.NewInt(500000000000000000)))
	assert.Equal(t, "0", FormatUnits(nil))
}

func TestParseAmount(t *testing.T) {
	v, ok := ParseAmount("")
	assert.True(t, ok)
	assert.Equal(t, int64(0), v.Int64())

	v, ok = ParseAmount("123456789012345678901234567890")
	assert.True(t, ok)
	assert.Equal(t, "123456789012345678901234567890", v.String())

	_, ok = ParseAmount("-1")
	assert.False(t, ok)
	_, ok = ParseAmount("0x10")
	assert.False(t, ok)
}
