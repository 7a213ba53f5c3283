package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/goether"
	"github.com/everFinance/xnames/schema"
)

// SDK signs mutating requests with an ethereum key.
type SDK struct {
	Signer *goether.Signer
	Cli    *XnamesCli
}

func NewSDK(xnamesUrl string, prvHex string) (*SDK, error) {
	signer, err := goether.NewSigner(prvHex)
	if err != nil {
		return nil, err
	}
	return &SDK{
		Signer: signer,
		Cli:    New(xnamesUrl),
	}, nil
}

func (s *SDK) Address() common.Address {
	return s.Signer.Address
}

func (s *SDK) post(path string, in, out interface{}) error {
	body := []byte{}
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return err
		}
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig, err := s.Signer.SignMsg(schema.SignPayload("POST", path, ts, body))
	if err != nil {
		return err
	}

	req := s.Cli.SCli.Post()
	req.Path(path)
	req.SetHeader("Content-Type", "application/json")
	req.SetHeader(schema.HeaderAddress, s.Signer.Address.Hex())
	req.SetHeader(schema.HeaderTimestamp, ts)
	req.SetHeader(schema.HeaderSignature, hexutil.Encode(sig))
	req.Body(bytes.NewReader(body))

	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return respError(resp)
	}
	if out == nil {
		return nil
	}
	return resp.JSON(out)
}

func (s *SDK) Init(grace uint64, beneficiary common.Address, royalty string) (schema.RespState, error) {
	st := schema.RespState{}
	err := s.post("/init", schema.InitReq{Grace: grace, Beneficiary: beneficiary, Royalty: royalty}, &st)
	return st, err
}

func (s *SDK) CreateNft(req schema.CreateNftReq) (schema.RespCreateNft, error) {
	res := schema.RespCreateNft{}
	err := s.post("/nft", req, &res)
	return res, err
}

func (s *SDK) Burn(tokenId string) error {
	return s.post(fmt.Sprintf("/burn/%s", tokenId), nil, nil)
}

func (s *SDK) Transfer(items []schema.TransferItem) error {
	return s.post("/transfer", schema.TransferReq{Transfers: items}, nil)
}

func (s *SDK) UpdateAuthority(field schema.AuthorityField, kind schema.UpdateKind, addr common.Address) error {
	return s.post("/authority", schema.AuthorityUpdateParams{Field: field, Kind: kind, Address: addr}, nil)
}

func (s *SDK) SetRoyalty(rate string) error {
	return s.post("/internal_value", schema.InternalValueReq{Field: "royalty", Royalty: rate}, nil)
}

func (s *SDK) SetBeneficiary(addr common.Address) error {
	return s.post("/internal_value", schema.InternalValueReq{Field: "beneficiary", Beneficiary: &addr}, nil)
}

func (s *SDK) ClaimRoyalties(marketplace common.Address, tokenId string, tokenNonce uint64) error {
	return s.post("/royalties/claim", schema.ClaimRoyaltiesReq{Marketplace: marketplace, TokenId: tokenId, TokenNonce: tokenNonce}, nil)
}

func (s *SDK) SetFixedPrice(price string) error {
	return s.post("/price", schema.SetPriceReq{PriceType: schema.Fixed, Price: price}, nil)
}

func (s *SDK) SetTierPrice(priceLess string, tiers []schema.PriceItemReq, priceMore string) error {
	return s.post("/price", schema.SetPriceReq{PriceType: schema.Dynamic, Price: priceLess, Tiers: tiers, PriceMore: priceMore}, nil)
}
