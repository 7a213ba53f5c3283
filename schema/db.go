package schema

import (
	"time"

	"gorm.io/datatypes"
)

// MintOrder is the read model row written for every committed createNft.
type MintOrder struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	OrderId           string `gorm:"unique" json:"orderId"`
	TokenId           string `gorm:"index:idx_token" json:"tokenId"`
	Owner             string `gorm:"index:idx_owner" json:"owner"`
	Domain            string `json:"domain"`
	Name              string `json:"name"`
	Uri               string `json:"uri"`
	SellingPrice      string `json:"sellingPrice"`
	PaymentToken      string `json:"paymentToken"`
	PaymentNonce      uint64 `json:"paymentNonce"`
	RegistrationPrice string `json:"registrationPrice"` // wei
	Royalty           string `json:"royalty"`
	Expiry            uint64 `json:"expiry"`
}

// RegistryEvent is the durable copy of a mint/burn/transfer notification.
type RegistryEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	EventId   string         `gorm:"unique" json:"eventId"`
	Name      string         `json:"name"`
	TokenId   string         `gorm:"index:idx_event_token" json:"tokenId"`
	Timestamp uint64         `json:"timestamp"`
	Payload   datatypes.JSON `json:"payload"`
	Published bool           `gorm:"index:idx_published" json:"published"`
}
