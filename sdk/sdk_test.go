package sdk

import (
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/everFinance/xnames"
	"github.com/everFinance/xnames/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSDK_SignedPost(t *testing.T) {
	k, err := crypto.GenerateKey()
	require.NoError(t, err)
	prvHex := hex.EncodeToString(crypto.FromECDSA(k))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		sig, err := hexutil.Decode(r.Header.Get(schema.HeaderSignature))
		if !assert.NoError(t, err) {
			return
		}
		msg := schema.SignPayload(r.Method, r.URL.Path, r.Header.Get(schema.HeaderTimestamp), body)
		signer, err := xnames.RecoverSigner(msg, sig)
		assert.NoError(t, err)
		assert.Equal(t, r.Header.Get(schema.HeaderAddress), signer.Hex())

		switch r.URL.Path {
		case "/nft":
			assert.Equal(t, "alice", gjson.GetBytes(body, "params.domain").String())
			w.Write([]byte(`{"tokenId":"alice-1","registrationFee":"3","paymentToken":"EGLD"}`))
		case "/burn/alice-1":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"grace_period_active"}`))
		default:
			w.Write([]byte(`"ok"`))
		}
	}))
	defer srv.Close()

	s, err := NewSDK(srv.URL, prvHex)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(k.PublicKey), s.Address())

	res, err := s.CreateNft(schema.CreateNftReq{Name: "alice", Params: schema.MintParamsReq{TokenId: "alice-1", Domain: "alice", Duration: 10}})
	assert.NoError(t, err)
	assert.Equal(t, "3", res.RegistrationFee)
	assert.Equal(t, schema.NativeToken, res.PaymentToken)

	err = s.Burn("alice-1")
	assert.Equal(t, schema.RespErr{Err: schema.ErrGracePeriodActive.Error()}, err)

	assert.NoError(t, s.SetFixedPrice("3"))
	assert.NoError(t, s.UpdateAuthority(schema.Maintainer, schema.Add, s.Address()))
}
