package xnames

import (
	"math/big"
	"testing"

	"github.com/everFinance/xnames/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOracle(t *testing.T) *PriceOracle {
	p := newPriceOracle(newTestStore(t), &execution{})
	require.NoError(t, p.Init())
	return p
}

func TestPriceOracle_Fixed(t *testing.T) {
	p := newTestOracle(t)

	require.NoError(t, p.SetPrice(schema.Fixed, big.NewInt(3), nil, nil))
	kind, err := p.Kind()
	require.NoError(t, err)
	assert.Equal(t, schema.Fixed, kind)
	want, _ := new(big.Int).SetString("3000000000000000000", 10)
	for _, l := range []uint8{0, 1, 3, 12, 255} {
		price, err := p.GetPrice(l)
		assert.NoError(t, err)
		assert.Equal(t, 0, want.Cmp(price), "length=%d", l)
	}
}

func TestPriceOracle_Tiers(t *testing.T) {
	p := newTestOracle(t)

	tiers := []schema.PriceItem{{Length: 3, Price: big.NewInt(10)}, {Length: 5, Price: big.NewInt(20)}}
	require.NoError(t, p.SetPrice(schema.Dynamic, big.NewInt(5), tiers, big.NewInt(50)))

	cases := map[uint8]int64{
		2: 5,  // below range
		3: 10, // exact
		4: 50, // gap inside the range falls back to price_more
		5: 20,
		6: 50, // above range
	}
	for length, want := range cases {
		price, err := p.GetPrice(length)
		assert.NoError(t, err)
		assert.Equal(t, want, price.Int64(), "length=%d", length)
	}

	// back to fixed discards the table
	require.NoError(t, p.SetPrice(schema.Fixed, big.NewInt(1), nil, nil))
	stored, err := p.store.LoadPriceTiers()
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func TestPriceOracle_SetPriceErrors(t *testing.T) {
	p := newTestOracle(t)
	tiers := []schema.PriceItem{{Length: 3, Price: big.NewInt(10)}}

	assert.Equal(t, schema.ErrInvalidPrice, p.SetPrice(schema.Dynamic, big.NewInt(0), tiers, big.NewInt(1)))
	assert.Equal(t, schema.ErrEmptyTierTable, p.SetPrice(schema.Dynamic, big.NewInt(1), nil, big.NewInt(1)))
	assert.Equal(t, schema.ErrInvalidPrice, p.SetPrice(schema.Fixed, big.NewInt(-1), nil, nil))
	assert.Equal(t, schema.ErrInvalidPrice, p.SetPrice(schema.PriceType(7), big.NewInt(1), nil, nil))

	// a rejected write leaves the fixed zero price in place
	price, err := p.GetPrice(3)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), price.Int64())
}

func TestPriceOracle_GetPriceEdges(t *testing.T) {
	p := newTestOracle(t)

	// table written without validation with a zero first price
	require.NoError(t, p.store.SavePriceType(schema.Dynamic))
	require.NoError(t, p.store.SavePriceTiers([]schema.PriceItem{{Length: 3, Price: big.NewInt(0)}}))
	_, err := p.GetPrice(3)
	assert.Equal(t, schema.ErrInvariantViolation, err)

	// unknown type tag resolves to zero
	require.NoError(t, p.store.SavePriceType(schema.PriceType(9)))
	price, err := p.GetPrice(3)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), price.Int64())
}
