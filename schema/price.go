package schema

import (
	"fmt"
	"math/big"
)

type PriceType uint8

const (
	Fixed PriceType = iota
	Dynamic
)

func (p PriceType) String() string {
	switch p {
	case Fixed:
		return "fixed"
	case Dynamic:
		return "dynamic"
	}
	return fmt.Sprintf("PriceType(%d)", uint8(p))
}

func (p PriceType) MarshalText() ([]byte, error) {
	switch p {
	case Fixed, Dynamic:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("unknown price type: %d", uint8(p))
}

func (p *PriceType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "fixed":
		*p = Fixed
	case "dynamic":
		*p = Dynamic
	default:
		return fmt.Errorf("unknown price type: %q", text)
	}
	return nil
}

// PriceItem prices names of exactly Length bytes.
type PriceItem struct {
	Length uint8    `json:"length"`
	Price  *big.Int `json:"price"`
}
