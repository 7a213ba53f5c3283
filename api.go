package xnames

import (
	"errors"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	xcommon "github.com/everFinance/xnames/common"
	"github.com/everFinance/xnames/schema"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxNameLength  = 255
	defaultPageNum = 20
)

var (
	ErrTooManyTransfers   = errors.New("err_too_many_transfers")
	ErrUnknownInternalVal = errors.New("err_unknown_internal_value")
)

// errors a client can fix by changing the request
var domainErrors = []error{
	schema.ErrInvalidAmount, schema.ErrGracePeriodActive, schema.ErrDurationOverflow,
	schema.ErrArithmeticOverflow, schema.ErrInvalidPrice, schema.ErrEmptyTierTable,
	schema.ErrInvariantViolation, schema.ErrInvalidToken, schema.ErrInvalidTokenId,
	schema.ErrInvalidAddress, schema.ErrDomainTooLong, schema.ErrLastAdmin, schema.ErrNotInitialized,
	schema.ErrExecutionEnded,
}

func (x *Xnames) runAPI(port string) {
	r := x.setupRouter()
	if err := r.Run(port); err != nil {
		panic(err)
	}
}

func (x *Xnames) setupRouter() *gin.Engine {
	r := x.engine
	r.Use(xcommon.CORSMiddleware())
	if x.config != nil {
		param := x.config.Param()
		r.Use(xcommon.LimiterMiddleware(param.RateLimit, param.RatePeriod, x.config.IPWhiteList))
	}

	v1 := r.Group("/")
	{
		v1.GET("/subscription/:tokenId", x.getSubscriptionStatus)
		v1.GET("/token/:tokenId", x.getTokenInfo)
		v1.GET("/price/:length", x.getPrice)
		v1.GET("/authority/admins", x.getAdmins)
		v1.GET("/authority/maintainers", x.getMaintainers)
		v1.GET("/state", x.getState)
		v1.GET("/nft/orders/:owner", x.getOrders)
		v1.GET("/events/:tokenId", x.getEvents)

		signed := v1.Group("/")
		signed.Use(x.CallerMiddleware())
		{
			signed.POST("/init", x.initRegistry)
			signed.POST("/nft", x.createNft)
			signed.POST("/burn/:tokenId", x.burn)
			signed.POST("/transfer", x.transfer)
			signed.POST("/authority", x.updateAuthority)
			signed.POST("/internal_value", x.updateInternalValue)
			signed.POST("/royalties/claim", x.claimRoyalties)
			signed.POST("/price", x.setPrice)
		}
	}
	return r
}

func (x *Xnames) initRegistry(c *gin.Context) {
	req := schema.InitReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	royalty, ok := xcommon.ParseAmount(req.Royalty)
	if !ok {
		errorResponse(c, schema.ErrInvalidAmount.Error())
		return
	}
	state := schema.State{Grace: req.Grace, Beneficiary: req.Beneficiary, Royalty: royalty}
	caller := callerOf(c)
	if err := x.Execute(caller, func(r *Request) error {
		return r.Init(caller, state)
	}); err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespState{
		Grace:       state.Grace,
		Beneficiary: state.Beneficiary,
		Royalty:     state.Royalty.String(),
		Owner:       caller,
	})
}

func (x *Xnames) createNft(c *gin.Context) {
	req := schema.CreateNftReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	payToken, payNonce, err := schema.PaymentToken(req.PaymentToken, req.PaymentNonce)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	if _, ok := xcommon.ParseAmount(req.SellingPrice); !ok {
		errorResponse(c, schema.ErrInvalidAmount.Error())
		return
	}
	params := schema.MintParams{
		TokenId:  req.Params.TokenId,
		Domain:   []byte(req.Params.Domain),
		Owner:    req.Params.Owner,
		Duration: req.Params.Duration,
	}
	if len(params.Domain) > maxNameLength {
		domainErrorResponse(c, schema.ErrDomainTooLong)
		return
	}

	caller := callerOf(c)
	resp := schema.RespCreateNft{}
	err = x.Execute(caller, func(r *Request) error {
		kind, err := r.PriceOracle().Kind()
		if err != nil {
			return err
		}
		price, err := r.PriceOracle().GetPrice(uint8(len(params.Domain)))
		if err != nil {
			return err
		}
		td, err := r.Create(caller, r.Now, params)
		if err != nil {
			return err
		}
		r.AddOrder(schema.MintOrder{
			OrderId:           uuid.NewString(),
			TokenId:           params.TokenId,
			Owner:             td.Owner.Hex(),
			Domain:            string(td.Domain),
			Name:              req.Name,
			Uri:               req.Uri,
			SellingPrice:      req.SellingPrice,
			PaymentToken:      payToken,
			PaymentNonce:      payNonce,
			RegistrationPrice: price.String(),
			Royalty:           td.Royalty.String(),
			Expiry:            td.Expiry,
		})
		resp = schema.RespCreateNft{
			TokenId:           params.TokenId,
			Owner:             td.Owner,
			Expiry:            td.Expiry,
			PaymentToken:      payToken,
			PaymentNonce:      payNonce,
			PriceType:         kind,
			RegistrationPrice: price.String(),
			RegistrationFee:   displayPrice(kind, price),
		}
		return nil
	})
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (x *Xnames) burn(c *gin.Context) {
	tokenId := c.Param("tokenId")
	if err := x.Execute(callerOf(c), func(r *Request) error {
		return r.Burn(r.Now, tokenId)
	}); err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (x *Xnames) transfer(c *gin.Context) {
	req := schema.TransferReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if x.config != nil && len(req.Transfers) > x.config.Param().MaxTransfer {
		errorResponse(c, ErrTooManyTransfers.Error())
		return
	}
	transfers := make([]schema.Transfer, 0, len(req.Transfers))
	for _, t := range req.Transfers {
		transfers = append(transfers, schema.Transfer{
			TokenId: t.TokenId,
			Amount:  t.Amount,
			From:    t.From,
			To:      t.To,
			Data:    []byte(t.Data),
		})
	}
	caller := callerOf(c)
	if err := x.Execute(caller, func(r *Request) error {
		return r.Transfer(caller, r.Now, transfers)
	}); err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (x *Xnames) updateAuthority(c *gin.Context) {
	params := schema.AuthorityUpdateParams{}
	if err := c.ShouldBindJSON(&params); err != nil {
		errorResponse(c, err.Error())
		return
	}
	caller := callerOf(c)
	if err := x.Execute(caller, func(r *Request) error {
		return r.Authority().UpdateAuthority(caller, params)
	}); err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (x *Xnames) updateInternalValue(c *gin.Context) {
	req := schema.InternalValueReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	var value schema.InternalValue
	switch req.Field {
	case "royalty":
		rate, ok := xcommon.ParseAmount(req.Royalty)
		if !ok || req.Royalty == "" {
			errorResponse(c, schema.ErrInvalidAmount.Error())
			return
		}
		value = schema.RoyaltyValue{Rate: rate}
	case "beneficiary":
		if req.Beneficiary == nil {
			errorResponse(c, schema.ErrInvalidAddress.Error())
			return
		}
		value = schema.BeneficiaryValue{Account: *req.Beneficiary}
	default:
		errorResponse(c, ErrUnknownInternalVal.Error())
		return
	}
	caller := callerOf(c)
	if err := x.Execute(caller, func(r *Request) error {
		return r.UpdateInternalValue(caller, value)
	}); err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (x *Xnames) claimRoyalties(c *gin.Context) {
	req := schema.ClaimRoyaltiesReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	caller := callerOf(c)
	if err := x.Execute(caller, func(r *Request) error {
		return r.ClaimRoyaltiesFromMarketplace(caller, req.Marketplace, req.TokenId, req.TokenNonce)
	}); err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (x *Xnames) setPrice(c *gin.Context) {
	req := schema.SetPriceReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	price, ok := xcommon.ParseAmount(req.Price)
	if !ok {
		errorResponse(c, schema.ErrInvalidPrice.Error())
		return
	}
	priceMore, ok := xcommon.ParseAmount(req.PriceMore)
	if !ok {
		errorResponse(c, schema.ErrInvalidPrice.Error())
		return
	}
	tiers := make([]schema.PriceItem, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		p, ok := xcommon.ParseAmount(t.Price)
		if !ok {
			errorResponse(c, schema.ErrInvalidPrice.Error())
			return
		}
		tiers = append(tiers, schema.PriceItem{Length: t.Length, Price: p})
	}
	if err := x.Execute(callerOf(c), func(r *Request) error {
		return r.PriceOracle().SetPrice(req.PriceType, price, tiers, priceMore)
	}); err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (x *Xnames) getSubscriptionStatus(c *gin.Context) {
	tokenId := c.Param("tokenId")
	var status *schema.TokenSubscriptionStatus
	err := x.View(func(r *Request) (err error) {
		status, err = r.SubscriptionStatus(r.Now, tokenId)
		return
	})
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	if status == nil {
		domainErrorResponse(c, schema.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (x *Xnames) getTokenInfo(c *gin.Context) {
	tokenId := c.Param("tokenId")
	var info *schema.TokenInfo
	err := x.View(func(r *Request) (err error) {
		info, err = r.TokenInfo(tokenId)
		return
	})
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	if info == nil {
		domainErrorResponse(c, schema.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, schema.RespTokenInfo{
		Domain:  string(info.Domain),
		Royalty: info.Royalty.String(),
	})
}

func (x *Xnames) getPrice(c *gin.Context) {
	length, err := strconv.ParseUint(c.Param("length"), 10, 8)
	if errors.Is(err, strconv.ErrRange) {
		domainErrorResponse(c, schema.ErrDomainTooLong)
		return
	}
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	var (
		kind  schema.PriceType
		price *big.Int
	)
	err = x.View(func(r *Request) (err error) {
		if kind, err = r.PriceOracle().Kind(); err != nil {
			return
		}
		price, err = r.PriceOracle().GetPrice(uint8(length))
		return
	})
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespPrice{
		Length: uint8(length),
		Type:   kind,
		Price:  price.String(),
		Amount: displayPrice(kind, price),
	})
}

// displayPrice renders fixed prices, stored in wei, with 18 decimals.
// Dynamic prices are stored as configured and shown as is.
func displayPrice(kind schema.PriceType, price *big.Int) string {
	if kind == schema.Fixed {
		return xcommon.FormatUnits(price)
	}
	return price.String()
}

func (x *Xnames) getAdmins(c *gin.Context) {
	x.getMembers(c, func(r *Request) ([]common.Address, error) { return r.Authority().Admins() })
}

func (x *Xnames) getMaintainers(c *gin.Context) {
	x.getMembers(c, func(r *Request) ([]common.Address, error) { return r.Authority().Maintainers() })
}

func (x *Xnames) getMembers(c *gin.Context, load func(r *Request) ([]common.Address, error)) {
	var members []common.Address
	err := x.View(func(r *Request) (err error) {
		members, err = load(r)
		return
	})
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (x *Xnames) getState(c *gin.Context) {
	var (
		state schema.State
		owner common.Address
	)
	err := x.View(func(r *Request) (err error) {
		if state, err = r.State(); err != nil {
			return
		}
		owner, err = r.Owner()
		return
	})
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespState{
		Grace:       state.Grace,
		Beneficiary: state.Beneficiary,
		Royalty:     state.Royalty.String(),
		Owner:       owner,
	})
}

func (x *Xnames) getOrders(c *gin.Context) {
	owner := c.Param("owner")
	if !common.IsHexAddress(owner) {
		errorResponse(c, schema.ErrInvalidAddress.Error())
		return
	}
	cursorId, err := strconv.ParseInt(c.DefaultQuery("cursorId", "0"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if x.wdb == nil {
		c.JSON(http.StatusOK, []schema.MintOrder{})
		return
	}
	orders, err := x.wdb.GetOrdersByOwner(common.HexToAddress(owner).Hex(), cursorId, defaultPageNum)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (x *Xnames) getEvents(c *gin.Context) {
	tokenId := c.Param("tokenId")
	cursorId, err := strconv.ParseInt(c.DefaultQuery("cursorId", "0"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if x.wdb == nil {
		c.JSON(http.StatusOK, []schema.RegistryEvent{})
		return
	}
	events, err := x.wdb.GetEventsByToken(tokenId, cursorId, defaultPageNum)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, events)
}

func domainErrorResponse(c *gin.Context, err error) {
	metricRequestError(err.Error())
	switch {
	case errors.Is(err, schema.ErrUnauthorized), errors.Is(err, schema.ErrNotOwner):
		c.JSON(http.StatusForbidden, schema.RespErr{Err: err.Error()})
	case errors.Is(err, schema.ErrNotFound):
		c.JSON(http.StatusNotFound, schema.RespErr{Err: err.Error()})
	case errors.Is(err, schema.ErrAlreadyExists), errors.Is(err, schema.ErrAlreadyInitialized):
		c.JSON(http.StatusConflict, schema.RespErr{Err: err.Error()})
	case isDomainError(err):
		errorResponse(c, err.Error())
	default:
		log.Error("request failed", "path", c.Request.URL.Path, "err", err)
		internalErrorResponse(c, err.Error())
	}
}

func isDomainError(err error) bool {
	for _, e := range domainErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	// internal error
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
