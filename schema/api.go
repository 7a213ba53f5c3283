package schema

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	HeaderAddress   = "X-Xnames-Address"
	HeaderTimestamp = "X-Xnames-Timestamp"
	HeaderSignature = "X-Xnames-Signature"

	MaxSignatureSkew = 5 * 60 // seconds
	MaxBodySize      = 1024 * 1024
)

type InitReq struct {
	Grace       uint64         `json:"grace"`
	Beneficiary common.Address `json:"beneficiary"`
	Royalty     string         `json:"royalty"`
}

type MintParamsReq struct {
	TokenId  string         `json:"tokenId"`
	Domain   string         `json:"domain"`
	Owner    common.Address `json:"owner"`
	Duration uint64         `json:"duration"`
}

type CreateNftReq struct {
	Name         string        `json:"name"`
	Uri          string        `json:"uri"`
	SellingPrice string        `json:"sellingPrice"`
	PaymentToken *string       `json:"paymentToken,omitempty"`
	PaymentNonce *uint64       `json:"paymentNonce,omitempty"`
	Params       MintParamsReq `json:"params"`
}

type RespCreateNft struct {
	TokenId           string         `json:"tokenId"`
	Owner             common.Address `json:"owner"`
	Expiry            uint64         `json:"expiry"`
	PaymentToken      string         `json:"paymentToken"`
	PaymentNonce      uint64         `json:"paymentNonce"`
	PriceType         PriceType      `json:"priceType"`
	RegistrationPrice string         `json:"registrationPrice"` // as stored
	RegistrationFee   string         `json:"registrationFee"`   // 18 decimals for fixed prices, raw for dynamic
}

type TransferItem struct {
	TokenId string         `json:"tokenId"`
	Amount  uint64         `json:"amount"`
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Data    string         `json:"data,omitempty"`
}

type TransferReq struct {
	Transfers []TransferItem `json:"transfers"`
}

type InternalValueReq struct {
	Field       string          `json:"field"` // "royalty" or "beneficiary"
	Royalty     string          `json:"royalty,omitempty"`
	Beneficiary *common.Address `json:"beneficiary,omitempty"`
}

type ClaimRoyaltiesReq struct {
	Marketplace common.Address `json:"marketplace"`
	TokenId     string         `json:"tokenId"`
	TokenNonce  uint64         `json:"tokenNonce"`
}

type PriceItemReq struct {
	Length uint8  `json:"length"`
	Price  string `json:"price"`
}

type SetPriceReq struct {
	PriceType PriceType      `json:"priceType"`
	Price     string         `json:"price"`
	Tiers     []PriceItemReq `json:"tiers"`
	PriceMore string         `json:"priceMore"`
}

type RespPrice struct {
	Length uint8     `json:"length"`
	Type   PriceType `json:"type"`
	Price  string    `json:"price"`  // as stored
	Amount string    `json:"amount"` // 18 decimals for fixed prices, raw for dynamic
}

type RespTokenInfo struct {
	Domain  string `json:"domain"`
	Royalty string `json:"royalty"`
}

type RespState struct {
	Grace       uint64         `json:"grace"`
	Beneficiary common.Address `json:"beneficiary"`
	Royalty     string         `json:"royalty"`
	Owner       common.Address `json:"owner"`
}

type RespErr struct {
	Err string `json:"error"`
}

func (r RespErr) Error() string {
	return r.Err
}

// SignPayload is the message a caller personal-signs for one request.
func SignPayload(method, path, timestamp string, body []byte) []byte {
	return []byte(fmt.Sprintf("%s\n%s\n%s\n%s", method, path, timestamp, crypto.Keccak256Hash(body).Hex()))
}
