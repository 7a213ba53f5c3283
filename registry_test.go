package xnames

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/xnames/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deployer = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	alice    = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	bob      = common.HexToAddress("0x0000000000000000000000000000000000000a03")
	outsider = common.HexToAddress("0x0000000000000000000000000000000000000a04")
	market   = common.HexToAddress("0x0000000000000000000000000000000000000b01")
)

func newTestStore(t *testing.T) *Store {
	s, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func initRegistry(t *testing.T, store *Store) *Registry {
	r := NewRegistry(store)
	require.NoError(t, r.Init(deployer, schema.State{Grace: 100, Beneficiary: deployer, Royalty: big.NewInt(500)}))
	return r
}

func mint(t *testing.T, r *Registry, now uint64, tokenId string, owner common.Address, duration uint64) schema.TokenData {
	td, err := r.Create(owner, now, schema.MintParams{TokenId: tokenId, Domain: []byte(tokenId), Owner: owner, Duration: duration})
	require.NoError(t, err)
	return td
}

func TestRegistry_Init(t *testing.T) {
	store := newTestStore(t)
	r := NewRegistry(store)

	_, err := r.State()
	assert.Equal(t, schema.ErrNotInitialized, err)
	_, err = r.Create(alice, 0, schema.MintParams{TokenId: "a", Duration: 1})
	assert.Equal(t, schema.ErrNotInitialized, err)

	require.NoError(t, r.Init(deployer, schema.State{Grace: 100, Beneficiary: bob}))
	assert.Equal(t, schema.ErrAlreadyInitialized, r.Init(alice, schema.State{}))

	state, err := r.State()
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), state.Grace)
	assert.Equal(t, bob, state.Beneficiary)
	assert.Equal(t, int64(0), state.Royalty.Int64())

	owner, err := r.Owner()
	assert.NoError(t, err)
	assert.Equal(t, deployer, owner)
	assert.True(t, r.Authority().HasAdminRights(deployer))

	price, err := r.PriceOracle().GetPrice(5)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), price.Int64())
}

func TestRegistry_MintThenRead(t *testing.T) {
	r := initRegistry(t, newTestStore(t))

	_, err := r.Create(alice, 1000, schema.MintParams{TokenId: "a", Domain: []byte("x"), Owner: alice, Duration: 1000})
	require.NoError(t, err)

	info, err := r.TokenInfo("a")
	assert.NoError(t, err)
	assert.Equal(t, &schema.TokenInfo{Domain: []byte("x"), Royalty: big.NewInt(500)}, info)

	st, err := r.SubscriptionStatus(1000, "a")
	assert.NoError(t, err)
	assert.Equal(t, &schema.TokenSubscriptionStatus{
		Owner:  alice,
		Status: schema.SubscriptionExpiryStatus{Kind: schema.Owned, Until: 2000},
	}, st)

	// records keep the royalty of their mint time
	require.NoError(t, r.UpdateInternalValue(deployer, schema.RoyaltyValue{Rate: big.NewInt(900)}))
	info, err = r.TokenInfo("a")
	assert.NoError(t, err)
	assert.Equal(t, int64(500), info.Royalty.Int64())

	assert.Len(t, r.Events(), 1)
	assert.Equal(t, schema.EventMint, r.Events()[0].Name)
	assert.Equal(t, alice, r.Events()[0].Owner)
	assert.Equal(t, schema.TokenAmount, r.Events()[0].Amount)
	assert.NotEmpty(t, r.Events()[0].Id)

	info, err = r.TokenInfo("missing")
	assert.NoError(t, err)
	assert.Nil(t, info)
	st, err = r.SubscriptionStatus(1000, "missing")
	assert.NoError(t, err)
	assert.Nil(t, st)
}

func TestRegistry_Create(t *testing.T) {
	r := initRegistry(t, newTestStore(t))

	_, err := r.Create(alice, ^uint64(0)-10, schema.MintParams{TokenId: "a", Duration: 11})
	assert.Equal(t, schema.ErrDurationOverflow, err)

	_, err = r.Create(alice, 0, schema.MintParams{TokenId: "", Duration: 1})
	assert.Equal(t, schema.ErrInvalidTokenId, err)

	td := mint(t, r, 10, "a", alice, 10)
	assert.Equal(t, uint64(20), td.Expiry)
	assert.Equal(t, uint64(100), td.Grace)

	_, err = r.Create(bob, 10, schema.MintParams{TokenId: "a", Owner: bob, Duration: 10})
	assert.Equal(t, schema.ErrAlreadyExists, err)

	// no owner mints to the caller
	td, err = r.Create(bob, 10, schema.MintParams{TokenId: "b", Duration: 10})
	assert.NoError(t, err)
	assert.Equal(t, bob, td.Owner)

	// an explicit owner is honoured over the caller
	td, err = r.Create(bob, 10, schema.MintParams{TokenId: "c", Owner: alice, Duration: 10})
	assert.NoError(t, err)
	assert.Equal(t, alice, td.Owner)
	st, err := r.SubscriptionStatus(10, "c")
	require.NoError(t, err)
	assert.Equal(t, alice, st.Owner)
	assert.Equal(t, alice, r.Events()[len(r.Events())-1].Owner)

	// a burned id can be minted again
	require.NoError(t, r.Burn(120, "a"))
	_, err = r.Create(bob, 120, schema.MintParams{TokenId: "a", Owner: bob, Duration: 10})
	assert.NoError(t, err)
}

func TestRegistry_ExpiryTransition(t *testing.T) {
	r := initRegistry(t, newTestStore(t))
	mint(t, r, 0, "a", alice, 50) // E=50, G=100

	cases := []struct {
		now  uint64
		kind schema.ExpiryKind
	}{
		{0, schema.Owned},
		{50, schema.Owned},
		{51, schema.Grace},
		{150, schema.Grace},
		{151, schema.Expired},
	}
	for _, c := range cases {
		st, err := r.SubscriptionStatus(c.now, "a")
		assert.NoError(t, err)
		assert.Equal(t, c.kind, st.Status.Kind, "now=%d", c.now)
	}
}

func TestRegistry_BurnGuard(t *testing.T) {
	r := initRegistry(t, newTestStore(t))
	mint(t, r, 0, "a", alice, 50)

	assert.Equal(t, schema.ErrNotFound, r.Burn(0, "missing"))
	assert.Equal(t, schema.ErrGracePeriodActive, r.Burn(149, "a"))

	assert.NoError(t, r.Burn(150, "a"))
	info, err := r.TokenInfo("a")
	assert.NoError(t, err)
	assert.Nil(t, info)
	assert.Equal(t, schema.ErrNotFound, r.Burn(150, "a"))

	last := r.Events()[len(r.Events())-1]
	assert.Equal(t, schema.EventBurn, last.Name)
	assert.Equal(t, alice, last.Owner)
}

func TestRegistry_Transfer(t *testing.T) {
	r := initRegistry(t, newTestStore(t))
	mint(t, r, 0, "a", alice, 50) // transferable from 150

	item := schema.Transfer{TokenId: "a", Amount: 1, From: alice, To: bob}

	assert.Equal(t, schema.ErrNotFound, r.Transfer(alice, 200, []schema.Transfer{{TokenId: "missing", Amount: 1, From: alice, To: bob}}))
	// caller and from must both be the owner
	assert.Equal(t, schema.ErrNotOwner, r.Transfer(bob, 200, []schema.Transfer{item}))
	assert.Equal(t, schema.ErrNotOwner, r.Transfer(alice, 200, []schema.Transfer{{TokenId: "a", Amount: 1, From: bob, To: bob}}))
	assert.Equal(t, schema.ErrInvalidAmount, r.Transfer(alice, 200, []schema.Transfer{{TokenId: "a", Amount: 2, From: alice, To: bob}}))

	// only fully expired records move
	assert.Equal(t, schema.ErrGracePeriodActive, r.Transfer(alice, 10, []schema.Transfer{item}))
	assert.Equal(t, schema.ErrGracePeriodActive, r.Transfer(alice, 149, []schema.Transfer{item}))

	require.NoError(t, r.Transfer(alice, 150, []schema.Transfer{item}))
	st, err := r.SubscriptionStatus(150, "a")
	assert.NoError(t, err)
	assert.Equal(t, bob, st.Owner)

	td, err := r.store.LoadTokenData("a")
	assert.NoError(t, err)
	assert.Equal(t, uint64(50), td.Expiry)
	assert.Equal(t, []byte("a"), td.Domain)

	last := r.Events()[len(r.Events())-1]
	assert.Equal(t, schema.EventTransfer, last.Name)
	assert.Equal(t, alice, last.From)
	assert.Equal(t, bob, last.To)
}

func TestRegistry_TransferSkip(t *testing.T) {
	r := initRegistry(t, newTestStore(t))
	mint(t, r, 0, "a", alice, 0)
	mint(t, r, 0, "b", alice, 0)
	before := len(r.Events())

	err := r.Transfer(alice, 1000, []schema.Transfer{
		{TokenId: "a", Amount: 0, From: alice, To: bob},
		{TokenId: "b", Amount: 1, From: alice, To: bob},
	})
	require.NoError(t, err)

	a, _ := r.SubscriptionStatus(1000, "a")
	b, _ := r.SubscriptionStatus(1000, "b")
	assert.Equal(t, alice, a.Owner)
	assert.Equal(t, bob, b.Owner)
	assert.Len(t, r.Events(), before+1)
	assert.Equal(t, "b", r.Events()[before].TokenId)
}

func TestRegistry_UpdateInternalValue(t *testing.T) {
	r := initRegistry(t, newTestStore(t))

	assert.Equal(t, schema.ErrUnauthorized, r.UpdateInternalValue(outsider, schema.BeneficiaryValue{Account: outsider}))

	require.NoError(t, r.Authority().UpdateAuthority(deployer, schema.AuthorityUpdateParams{Field: schema.Maintainer, Kind: schema.Add, Address: alice}))
	require.NoError(t, r.UpdateInternalValue(alice, schema.BeneficiaryValue{Account: bob}))

	state, err := r.State()
	assert.NoError(t, err)
	assert.Equal(t, bob, state.Beneficiary)
	assert.Equal(t, int64(500), state.Royalty.Int64())

	require.NoError(t, r.UpdateInternalValue(alice, schema.RoyaltyValue{Rate: big.NewInt(42)}))
	state, err = r.State()
	assert.NoError(t, err)
	assert.Equal(t, bob, state.Beneficiary)
	assert.Equal(t, int64(42), state.Royalty.Int64())

	assert.Equal(t, schema.ErrInvalidAmount, r.UpdateInternalValue(alice, schema.RoyaltyValue{Rate: big.NewInt(-1)}))
}

func TestRegistry_CapabilityInvariant(t *testing.T) {
	r := initRegistry(t, newTestStore(t))
	require.NoError(t, r.Authority().UpdateAuthority(deployer, schema.AuthorityUpdateParams{Field: schema.Maintainer, Kind: schema.Add, Address: alice}))

	for _, field := range []schema.AuthorityField{schema.Maintainer, schema.Admin} {
		for _, kind := range []schema.UpdateKind{schema.Add, schema.Remove} {
			for _, target := range []common.Address{outsider, alice, deployer} {
				err := r.Authority().UpdateAuthority(outsider, schema.AuthorityUpdateParams{Field: field, Kind: kind, Address: target})
				assert.Equal(t, schema.ErrUnauthorized, err)
			}
		}
	}
	assert.Equal(t, schema.ErrUnauthorized, r.UpdateInternalValue(outsider, schema.RoyaltyValue{Rate: big.NewInt(1)}))
	assert.Equal(t, schema.ErrUnauthorized, r.ClaimRoyaltiesFromMarketplace(outsider, market, "XN-abcdef", 1))
	// maintainers are not the contract owner
	assert.Equal(t, schema.ErrUnauthorized, r.ClaimRoyaltiesFromMarketplace(alice, market, "XN-abcdef", 1))

	admins, err := r.Authority().Admins()
	assert.NoError(t, err)
	assert.Equal(t, []common.Address{deployer}, admins)
	maintainers, err := r.Authority().Maintainers()
	assert.NoError(t, err)
	assert.Equal(t, []common.Address{alice}, maintainers)
}

func TestRegistry_ClaimIsTerminal(t *testing.T) {
	r := initRegistry(t, newTestStore(t))
	mint(t, r, 0, "a", alice, 0)

	require.NoError(t, r.ClaimRoyaltiesFromMarketplace(deployer, market, "XN-abcdef", 3))
	assert.Equal(t, &schema.ClaimTokens{
		Marketplace:      market,
		TokenId:          "XN-abcdef",
		TokenNonce:       3,
		ClaimDestination: deployer,
	}, r.Claim())

	assert.Equal(t, schema.ErrExecutionEnded, r.Burn(1000, "a"))
	assert.Equal(t, schema.ErrExecutionEnded, r.ClaimRoyaltiesFromMarketplace(deployer, market, "XN-abcdef", 3))
	assert.Equal(t, schema.ErrExecutionEnded, r.Authority().UpdateAuthority(deployer, schema.AuthorityUpdateParams{Field: schema.Admin, Kind: schema.Add, Address: bob}))
	assert.Equal(t, schema.ErrExecutionEnded, r.PriceOracle().SetPrice(schema.Fixed, big.NewInt(1), nil, nil))
	_, err := r.Create(alice, 0, schema.MintParams{TokenId: "b", Duration: 1})
	assert.Equal(t, schema.ErrExecutionEnded, err)

	// reads still work
	info, err := r.TokenInfo("a")
	assert.NoError(t, err)
	assert.NotNil(t, info)
}
