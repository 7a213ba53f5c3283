package xnames

import (
	"errors"
	"math/big"

	"github.com/everFinance/xnames/common"
	"github.com/everFinance/xnames/schema"
)

// PriceOracle resolves the registration price of a name from its length.
// Fixed prices are stored in wei; dynamic values are stored as given.
type PriceOracle struct {
	store *Store
	exec  *execution
}

func newPriceOracle(store *Store, exec *execution) *PriceOracle {
	return &PriceOracle{store: store, exec: exec}
}

func (p *PriceOracle) Init() error {
	if err := p.store.SavePriceType(schema.Fixed); err != nil {
		return err
	}
	return p.store.SaveAmount(schema.PriceFixedKey, big.NewInt(0))
}

func (p *PriceOracle) SetPrice(kind schema.PriceType, price *big.Int, tiers []schema.PriceItem, priceMore *big.Int) error {
	if err := p.exec.check(); err != nil {
		return err
	}
	if price == nil || price.Sign() < 0 {
		return schema.ErrInvalidPrice
	}

	switch kind {
	case schema.Fixed:
		if err := p.store.SavePriceType(schema.Fixed); err != nil {
			return err
		}
		if err := p.store.SaveAmount(schema.PriceFixedKey, common.ToWei(price)); err != nil {
			return err
		}
		return p.store.DelPriceTiers()

	case schema.Dynamic:
		if price.Sign() == 0 {
			return schema.ErrInvalidPrice
		}
		if len(tiers) == 0 {
			return schema.ErrEmptyTierTable
		}
		if priceMore == nil {
			priceMore = big.NewInt(0)
		}
		if priceMore.Sign() < 0 {
			return schema.ErrInvalidPrice
		}
		for _, t := range tiers {
			if t.Price == nil || t.Price.Sign() < 0 {
				return schema.ErrInvalidPrice
			}
		}
		if err := p.store.SavePriceType(schema.Dynamic); err != nil {
			return err
		}
		if err := p.store.SaveAmount(schema.PriceLessKey, price); err != nil {
			return err
		}
		if err := p.store.SaveAmount(schema.PriceMoreKey, priceMore); err != nil {
			return err
		}
		return p.store.SavePriceTiers(tiers)

	default:
		return schema.ErrInvalidPrice
	}
}

// Kind is the configured price type; an unset oracle reads as Fixed.
func (p *PriceOracle) Kind() (schema.PriceType, error) {
	kind, err := p.store.LoadPriceType()
	if errors.Is(err, schema.ErrNotExist) {
		return schema.Fixed, nil
	}
	return kind, err
}

// GetPrice trusts the tier table to be sorted by length. A length inside the
// covered range without an exact tier falls back to price_more.
func (p *PriceOracle) GetPrice(length uint8) (*big.Int, error) {
	kind, err := p.store.LoadPriceType()
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return big.NewInt(0), nil
		}
		return nil, err
	}

	switch kind {
	case schema.Fixed:
		return p.store.LoadAmount(schema.PriceFixedKey)
	case schema.Dynamic:
		return p.dynamicPrice(length)
	default:
		return big.NewInt(0), nil
	}
}

func (p *PriceOracle) dynamicPrice(length uint8) (*big.Int, error) {
	tiers, err := p.store.LoadPriceTiers()
	if err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		return nil, schema.ErrInvariantViolation
	}
	first, last := tiers[0], tiers[len(tiers)-1]
	if first.Price == nil || first.Price.Sign() == 0 {
		return nil, schema.ErrInvariantViolation
	}

	if length < first.Length {
		return p.store.LoadAmount(schema.PriceLessKey)
	}
	if length > last.Length {
		return p.store.LoadAmount(schema.PriceMoreKey)
	}
	for _, t := range tiers {
		if t.Length == length {
			return new(big.Int).Set(t.Price), nil
		}
	}
	return p.store.LoadAmount(schema.PriceMoreKey)
}
