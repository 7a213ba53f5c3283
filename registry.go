package xnames

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/xnames/schema"
	"github.com/google/uuid"
)

// execution is shared by the components of one request. Once a one-way call
// is recorded no further mutation may run in the same request.
type execution struct {
	claim *schema.ClaimTokens
}

func (e *execution) check() error {
	if e != nil && e.claim != nil {
		return schema.ErrExecutionEnded
	}
	return nil
}

// Registry owns the token records, the global state and the contract owner.
type Registry struct {
	store     *Store
	authority *Authority
	oracle    *PriceOracle
	exec      *execution

	events []schema.Event
}

func NewRegistry(store *Store) *Registry {
	exec := &execution{}
	return &Registry{
		store:     store,
		authority: newAuthority(store, exec),
		oracle:    newPriceOracle(store, exec),
		exec:      exec,
		events:    make([]schema.Event, 0),
	}
}

func (r *Registry) Authority() *Authority {
	return r.authority
}

func (r *Registry) PriceOracle() *PriceOracle {
	return r.oracle
}

// Events returns the notifications emitted so far, in order.
func (r *Registry) Events() []schema.Event {
	return r.events
}

// Claim returns the recorded marketplace call, if any.
func (r *Registry) Claim() *schema.ClaimTokens {
	return r.exec.claim
}

func (r *Registry) emit(e schema.Event) {
	e.Id = uuid.NewString()
	r.events = append(r.events, e)
}

func (r *Registry) Init(deployer common.Address, state schema.State) error {
	if err := r.exec.check(); err != nil {
		return err
	}
	if r.store.IsInitialized() {
		return schema.ErrAlreadyInitialized
	}
	if state.Royalty == nil {
		state.Royalty = big.NewInt(0)
	}
	if state.Royalty.Sign() < 0 {
		return schema.ErrInvalidAmount
	}
	if err := r.store.SaveState(state); err != nil {
		return err
	}
	if err := r.store.SaveOwner(deployer); err != nil {
		return err
	}
	if err := r.authority.addAdmin(deployer); err != nil {
		return err
	}
	return r.oracle.Init()
}

func (r *Registry) State() (schema.State, error) {
	return r.store.LoadState()
}

func (r *Registry) Owner() (common.Address, error) {
	return r.store.LoadOwner()
}

// Create mints params.TokenId to params.Owner, or to caller when no owner is given.
func (r *Registry) Create(caller common.Address, now uint64, params schema.MintParams) (schema.TokenData, error) {
	if err := r.exec.check(); err != nil {
		return schema.TokenData{}, err
	}
	if err := schema.ValidTokenId(params.TokenId); err != nil {
		return schema.TokenData{}, err
	}
	expiry := now + params.Duration
	if expiry < now {
		return schema.TokenData{}, schema.ErrDurationOverflow
	}
	if r.store.IsExistTokenData(params.TokenId) {
		return schema.TokenData{}, schema.ErrAlreadyExists
	}
	state, err := r.store.LoadState()
	if err != nil {
		return schema.TokenData{}, err
	}

	owner := params.Owner
	if owner == (common.Address{}) {
		owner = caller
	}
	td := schema.TokenData{
		Owner:   owner,
		Expiry:  expiry,
		Grace:   state.Grace,
		Domain:  append([]byte{}, params.Domain...),
		Royalty: new(big.Int).Set(state.Royalty),
	}
	if err := r.store.SaveTokenData(params.TokenId, td); err != nil {
		return schema.TokenData{}, err
	}
	r.emit(schema.Event{
		Name:      schema.EventMint,
		TokenId:   params.TokenId,
		Owner:     owner,
		Amount:    schema.TokenAmount,
		Timestamp: now,
	})
	return td, nil
}

func (r *Registry) loadToken(tokenId string) (schema.TokenData, error) {
	td, err := r.store.LoadTokenData(tokenId)
	if errors.Is(err, schema.ErrNotExist) {
		return td, schema.ErrNotFound
	}
	return td, err
}

func (r *Registry) Burn(now uint64, tokenId string) error {
	if err := r.exec.check(); err != nil {
		return err
	}
	td, err := r.loadToken(tokenId)
	if err != nil {
		return err
	}
	graceUntil, err := td.GraceUntil()
	if err != nil {
		return err
	}
	if now < graceUntil {
		return schema.ErrGracePeriodActive
	}
	if err := r.store.DelTokenData(tokenId); err != nil {
		return err
	}
	r.emit(schema.Event{
		Name:      schema.EventBurn,
		TokenId:   tokenId,
		Owner:     td.Owner,
		Amount:    schema.TokenAmount,
		Timestamp: now,
	})
	return nil
}

// Transfer applies the items in order. It is only permitted once a record is
// past both its expiry and its grace window. An error leaves earlier items
// staged; the request layer discards them.
func (r *Registry) Transfer(caller common.Address, now uint64, transfers []schema.Transfer) error {
	if err := r.exec.check(); err != nil {
		return err
	}
	for _, t := range transfers {
		td, err := r.loadToken(t.TokenId)
		if err != nil {
			return err
		}
		if td.Owner != t.From || td.Owner != caller {
			return schema.ErrNotOwner
		}
		switch t.Amount {
		case 0:
			continue
		case schema.TokenAmount:
		default:
			return schema.ErrInvalidAmount
		}
		graceUntil, err := td.GraceUntil()
		if err != nil {
			return err
		}
		if now < graceUntil || now < td.Expiry {
			return schema.ErrGracePeriodActive
		}

		td.Owner = t.To
		if err := r.store.SaveTokenData(t.TokenId, td); err != nil {
			return err
		}
		r.emit(schema.Event{
			Name:      schema.EventTransfer,
			TokenId:   t.TokenId,
			From:      t.From,
			To:        t.To,
			Amount:    t.Amount,
			Timestamp: now,
		})
	}
	return nil
}

// SubscriptionStatus returns nil when tokenId has no live record.
func (r *Registry) SubscriptionStatus(now uint64, tokenId string) (*schema.TokenSubscriptionStatus, error) {
	td, err := r.store.LoadTokenData(tokenId)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	st, err := td.SubscriptionStatus(now)
	if err != nil {
		return nil, err
	}
	return &schema.TokenSubscriptionStatus{Owner: td.Owner, Status: st}, nil
}

func (r *Registry) TokenInfo(tokenId string) (*schema.TokenInfo, error) {
	td, err := r.store.LoadTokenData(tokenId)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &schema.TokenInfo{Domain: td.Domain, Royalty: td.Royalty}, nil
}

func (r *Registry) UpdateInternalValue(caller common.Address, value schema.InternalValue) error {
	if err := r.exec.check(); err != nil {
		return err
	}
	if !r.authority.HasMaintainerRights(caller) {
		return schema.ErrUnauthorized
	}
	state, err := r.store.LoadState()
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case schema.RoyaltyValue:
		if v.Rate == nil || v.Rate.Sign() < 0 {
			return schema.ErrInvalidAmount
		}
		state.Royalty = new(big.Int).Set(v.Rate)
	case schema.BeneficiaryValue:
		state.Beneficiary = v.Account
	default:
		return fmt.Errorf("unknown internal value: %T", value)
	}
	return r.store.SaveState(state)
}

// ClaimRoyaltiesFromMarketplace records the one-way claim call. It is the
// last operation of its request.
func (r *Registry) ClaimRoyaltiesFromMarketplace(caller, marketplace common.Address, tokenId string, tokenNonce uint64) error {
	if err := r.exec.check(); err != nil {
		return err
	}
	owner, err := r.store.LoadOwner()
	if err != nil {
		return err
	}
	if caller != owner {
		return schema.ErrUnauthorized
	}
	if err := schema.ValidTokenId(tokenId); err != nil {
		return err
	}
	r.exec.claim = &schema.ClaimTokens{
		Marketplace:      marketplace,
		TokenId:          tokenId,
		TokenNonce:       tokenNonce,
		ClaimDestination: caller,
	}
	return nil
}
