package common

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const Decimals = 18

var weiPerUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// ToWei scales amount by 10^18.
func ToWei(amount *big.Int) *big.Int {
	return new(big.Int).Mul(amount, weiPerUnit)
}

// FormatUnits renders a wei amount as a decimal string with up to 18 fraction digits.
func FormatUnits(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -Decimals).String()
}

// ParseAmount parses a base 10 unsigned integer; empty string is zero.
func ParseAmount(s string) (*big.Int, bool) {
	if s == "" {
		return big.NewInt(0), true
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}
