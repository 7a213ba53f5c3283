package xnames

import (
	"errors"
	"fmt"
	"time"

	"github.com/everFinance/xnames/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/timeout"
)

const marketplaceTimeout = 30 * time.Second

// MarketplaceCli issues one-way calls to the external marketplace.
type MarketplaceCli struct {
	cli *gentleman.Client
}

func NewMarketplaceCli(marketplaceUrl string) *MarketplaceCli {
	cli := gentleman.New().URL(marketplaceUrl)
	cli.Use(timeout.Request(marketplaceTimeout))
	return &MarketplaceCli{cli: cli}
}

func (m *MarketplaceCli) ClaimTokens(claim schema.ClaimTokens) error {
	req := m.cli.Post()
	req.AddPath(fmt.Sprintf("/%s/claimTokens", claim.Marketplace.Hex()))
	req.JSON(map[string]interface{}{
		"tokenId":          claim.TokenId,
		"tokenNonce":       claim.TokenNonce,
		"claimDestination": claim.ClaimDestination.Hex(),
	})
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	body := resp.String()
	if !resp.Ok {
		if msg := gjson.Get(body, "error"); msg.Exists() {
			return errors.New(msg.String())
		}
		return fmt.Errorf("resp failed: %s", body)
	}
	log.Info("claim tokens accepted", "marketplace", claim.Marketplace, "tokenId", claim.TokenId, "tx", gjson.Get(body, "txHash").String())
	return nil
}

// dispatchClaim sends the claim without waiting; the outcome is only logged.
func (x *Xnames) dispatchClaim(claim schema.ClaimTokens) {
	if x.marketplace == nil {
		log.Warn("no marketplace configured, drop claim", "marketplace", claim.Marketplace, "tokenId", claim.TokenId)
		return
	}
	if err := x.pool.Submit(func() {
		if err := x.marketplace.ClaimTokens(claim); err != nil {
			log.Error("x.marketplace.ClaimTokens(claim)", "err", err, "marketplace", claim.Marketplace, "tokenId", claim.TokenId)
		}
	}); err != nil {
		log.Error("x.pool.Submit(claim)", "err", err)
	}
}
