package schema

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	EventMint     = "mint"
	EventBurn     = "burn"
	EventTransfer = "transfer"
)

// Event is a registry notification. Owner is set for mint and burn, From/To for transfer.
type Event struct {
	Id        string         `json:"id"`
	Name      string         `json:"name"`
	TokenId   string         `json:"tokenId"`
	Owner     common.Address `json:"owner,omitempty"`
	From      common.Address `json:"from,omitempty"`
	To        common.Address `json:"to,omitempty"`
	Amount    uint64         `json:"amount"`
	Timestamp uint64         `json:"timestamp"`
}
