package schema

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// TokenAmount is the only non-zero quantity a domain token can move.
	TokenAmount = uint64(1)

	// NativeToken is used as payment token when createNft carries none.
	NativeToken = "EGLD"
)

// State is the registry wide configuration copied into every minted token.
type State struct {
	Grace       uint64         `json:"grace"`
	Beneficiary common.Address `json:"beneficiary"`
	Royalty     *big.Int       `json:"royalty"`
}

type TokenData struct {
	Owner   common.Address `json:"owner"`
	Expiry  uint64         `json:"expiry"`
	Grace   uint64         `json:"grace"`
	Domain  []byte         `json:"domain"`
	Royalty *big.Int       `json:"royalty"`
}

// GraceUntil is the last timestamp of the grace window.
func (t TokenData) GraceUntil() (uint64, error) {
	until := t.Expiry + t.Grace
	if until < t.Expiry {
		return 0, ErrDurationOverflow
	}
	return until, nil
}

type MintParams struct {
	TokenId  string         `json:"tokenId"`
	Domain   []byte         `json:"domain"`
	Owner    common.Address `json:"owner"`
	Duration uint64         `json:"duration"`
}

type Transfer struct {
	TokenId string         `json:"tokenId"`
	Amount  uint64         `json:"amount"`
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Data    []byte         `json:"data,omitempty"`
}

type TokenInfo struct {
	Domain  []byte   `json:"domain"`
	Royalty *big.Int `json:"royalty"`
}

type ExpiryKind uint8

const (
	Owned ExpiryKind = iota
	Grace
	Expired
)

func (k ExpiryKind) String() string {
	switch k {
	case Owned:
		return "owned"
	case Grace:
		return "grace"
	case Expired:
		return "expired"
	}
	return fmt.Sprintf("ExpiryKind(%d)", uint8(k))
}

func (k ExpiryKind) MarshalText() ([]byte, error) {
	switch k {
	case Owned, Grace, Expired:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown expiry kind: %d", uint8(k))
}

func (k *ExpiryKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "owned":
		*k = Owned
	case "grace":
		*k = Grace
	case "expired":
		*k = Expired
	default:
		return fmt.Errorf("unknown expiry kind: %q", text)
	}
	return nil
}

// SubscriptionExpiryStatus is derived from a TokenData and a timestamp, never stored.
// Until is zero for Expired.
type SubscriptionExpiryStatus struct {
	Kind  ExpiryKind `json:"kind"`
	Until uint64     `json:"until,omitempty"`
}

type TokenSubscriptionStatus struct {
	Owner  common.Address           `json:"owner"`
	Status SubscriptionExpiryStatus `json:"status"`
}

// SubscriptionStatus derives the expiry status of t at slotTime.
func (t TokenData) SubscriptionStatus(slotTime uint64) (SubscriptionExpiryStatus, error) {
	graceUntil, err := t.GraceUntil()
	if err != nil {
		return SubscriptionExpiryStatus{}, err
	}
	switch {
	case slotTime <= t.Expiry:
		return SubscriptionExpiryStatus{Kind: Owned, Until: t.Expiry}, nil
	case slotTime <= graceUntil:
		return SubscriptionExpiryStatus{Kind: Grace, Until: graceUntil}, nil
	default:
		return SubscriptionExpiryStatus{Kind: Expired}, nil
	}
}

// InternalValue is either RoyaltyValue or BeneficiaryValue.
type InternalValue interface {
	internalValue()
}

type RoyaltyValue struct {
	Rate *big.Int
}

type BeneficiaryValue struct {
	Account common.Address
}

func (RoyaltyValue) internalValue()     {}
func (BeneficiaryValue) internalValue() {}

// ClaimTokens is the one way call issued to an external marketplace.
type ClaimTokens struct {
	Marketplace      common.Address `json:"marketplace"`
	TokenId          string         `json:"tokenId"`
	TokenNonce       uint64         `json:"tokenNonce"`
	ClaimDestination common.Address `json:"claimDestination"`
}
