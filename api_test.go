package xnames

import (
	"crypto/ecdsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/everFinance/xnames/schema"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type apiSuite struct {
	t      *testing.T
	x      *Xnames
	router *gin.Engine
}

func newAPISuite(t *testing.T) *apiSuite {
	x := newTestXnames(t, nil, nil)
	return &apiSuite{t: t, x: x, router: x.setupRouter()}
}

func (s *apiSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *apiSuite) post(key *ecdsa.PrivateKey, path string, v interface{}) *httptest.ResponseRecorder {
	return s.do(signJSON(s.t, key, "POST", path, v))
}

func (s *apiSuite) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest("GET", path, nil))
}

func TestAPI_Lifecycle(t *testing.T) {
	s := newAPISuite(t)
	deployerKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	aliceKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	deployerAddr := crypto.PubkeyToAddress(deployerKey.PublicKey)
	aliceAddr := crypto.PubkeyToAddress(aliceKey.PublicKey)

	w := s.get("/state")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, schema.ErrNotInitialized.Error(), gjson.Get(w.Body.String(), "error").String())

	initReq := schema.InitReq{Grace: 100, Beneficiary: deployerAddr, Royalty: "250"}
	w = s.post(deployerKey, "/init", initReq)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.post(aliceKey, "/init", initReq)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.get("/state")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "250", gjson.Get(w.Body.String(), "royalty").String())
	assert.Equal(t, deployerAddr, common.HexToAddress(gjson.Get(w.Body.String(), "owner").String()))

	w = s.post(aliceKey, "/price", schema.SetPriceReq{PriceType: schema.Fixed, Price: "3"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.get("/price/4")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3000000000000000000", gjson.Get(w.Body.String(), "price").String())
	assert.Equal(t, "3", gjson.Get(w.Body.String(), "amount").String())

	w = s.post(aliceKey, "/price", schema.SetPriceReq{PriceType: schema.Dynamic, Price: "5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, schema.ErrEmptyTierTable.Error(), gjson.Get(w.Body.String(), "error").String())

	mintReq := schema.CreateNftReq{
		Name:         "alice",
		Uri:          "https://xnames.io/alice",
		SellingPrice: "0",
		Params:       schema.MintParamsReq{TokenId: "alice-1", Domain: "alice", Duration: 1000},
	}
	w = s.post(aliceKey, "/nft", mintReq)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, aliceAddr, common.HexToAddress(gjson.Get(w.Body.String(), "owner").String()))
	assert.Equal(t, schema.NativeToken, gjson.Get(w.Body.String(), "paymentToken").String())
	assert.Equal(t, "3", gjson.Get(w.Body.String(), "registrationFee").String())

	w = s.post(aliceKey, "/nft", mintReq)
	assert.Equal(t, http.StatusConflict, w.Code)

	badToken := "usdc"
	mintReq.PaymentToken = &badToken
	mintReq.Params.TokenId = "alice-2"
	w = s.post(aliceKey, "/nft", mintReq)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, schema.ErrInvalidToken.Error(), gjson.Get(w.Body.String(), "error").String())

	w = s.get("/token/alice-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", gjson.Get(w.Body.String(), "domain").String())
	assert.Equal(t, "250", gjson.Get(w.Body.String(), "royalty").String())
	assert.Equal(t, http.StatusNotFound, s.get("/token/nope").Code)

	w = s.get("/subscription/alice-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owned", gjson.Get(w.Body.String(), "status.kind").String())
	assert.Equal(t, testNow+1000, gjson.Get(w.Body.String(), "status.until").Int())
	assert.Equal(t, http.StatusNotFound, s.get("/subscription/nope").Code)

	w = s.post(aliceKey, "/burn/alice-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, schema.ErrGracePeriodActive.Error(), gjson.Get(w.Body.String(), "error").String())
	assert.Equal(t, http.StatusNotFound, s.post(aliceKey, "/burn/nope", nil).Code)

	w = s.post(aliceKey, "/transfer", schema.TransferReq{Transfers: []schema.TransferItem{{TokenId: "alice-1", Amount: 1, From: deployerAddr, To: deployerAddr}}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.post(aliceKey, "/authority", schema.AuthorityUpdateParams{Field: schema.Admin, Kind: schema.Add, Address: aliceAddr})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.post(deployerKey, "/authority", schema.AuthorityUpdateParams{Field: schema.Maintainer, Kind: schema.Add, Address: aliceAddr})
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.get("/authority/maintainers")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, aliceAddr, common.HexToAddress(gjson.Get(w.Body.String(), "0").String()))

	w = s.post(aliceKey, "/internal_value", schema.InternalValueReq{Field: "royalty", Royalty: "300"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.post(aliceKey, "/internal_value", schema.InternalValueReq{Field: "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.get("/state")
	assert.Equal(t, "300", gjson.Get(w.Body.String(), "royalty").String())

	w = s.post(aliceKey, "/royalties/claim", schema.ClaimRoyaltiesReq{Marketplace: market, TokenId: "XN-abcdef", TokenNonce: 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// unsigned mutation
	w = s.do(httptest.NewRequest("POST", "/burn/alice-1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.get("/nft/orders/" + aliceAddr.Hex())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusBadRequest, s.get("/nft/orders/nobody").Code)
}

func TestAPI_PriceTiers(t *testing.T) {
	s := newAPISuite(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	w := s.post(key, "/price", schema.SetPriceReq{
		PriceType: schema.Dynamic,
		Price:     "5",
		Tiers:     []schema.PriceItemReq{{Length: 3, Price: "10"}, {Length: 5, Price: "20"}},
		PriceMore: "50",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for path, want := range map[string]string{"/price/2": "5", "/price/4": "50", "/price/5": "20", "/price/255": "50"} {
		w = s.get(path)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, gjson.Get(w.Body.String(), "price").String(), path)
		assert.Equal(t, want, gjson.Get(w.Body.String(), "amount").String(), path)
		assert.Equal(t, "dynamic", gjson.Get(w.Body.String(), "type").String(), path)
	}
	assert.Equal(t, http.StatusBadRequest, s.get("/price/abc").Code)
	assert.Equal(t, http.StatusBadRequest, s.get("/price/-1").Code)

	w = s.post(key, "/price", map[string]interface{}{"priceType": "auction", "price": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_PriceLengthOutOfRange(t *testing.T) {
	s := newAPISuite(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	w := s.post(key, "/init", schema.InitReq{Grace: 100, Royalty: "0"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.post(key, "/price", schema.SetPriceReq{
		PriceType: schema.Dynamic,
		Price:     "5",
		Tiers:     []schema.PriceItemReq{{Length: 3, Price: "10"}, {Length: 255, Price: "7"}},
		PriceMore: "50",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.get("/price/255")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", gjson.Get(w.Body.String(), "price").String())

	for _, path := range []string{"/price/256", "/price/300", "/price/100000"} {
		w = s.get(path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, schema.ErrDomainTooLong.Error(), gjson.Get(w.Body.String(), "error").String(), path)
	}

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	w = s.post(key, "/nft", schema.CreateNftReq{
		SellingPrice: "0",
		Params:       schema.MintParamsReq{TokenId: "long-1", Domain: string(long), Duration: 1000},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, schema.ErrDomainTooLong.Error(), gjson.Get(w.Body.String(), "error").String())
	assert.Equal(t, http.StatusNotFound, s.get("/token/long-1").Code)

	w = s.post(key, "/nft", schema.CreateNftReq{
		SellingPrice: "0",
		Params:       schema.MintParamsReq{TokenId: "max-1", Domain: string(long[:255]), Duration: 1000},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "7", gjson.Get(w.Body.String(), "registrationPrice").String())
	assert.Equal(t, "7", gjson.Get(w.Body.String(), "registrationFee").String())
}
