package xnames

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/everFinance/xnames/schema"
	"github.com/gin-gonic/gin"
)

const callerKey = "xnames_caller"

var (
	ErrMissingSignature = errors.New("err_missing_signature")
	ErrInvalidSignature = errors.New("err_invalid_signature")
	ErrSignatureExpired = errors.New("err_signature_expired")
	ErrBodyTooLarge     = errors.New("err_body_too_large")
)

// RecoverSigner returns the address that personal-signed msg.
func RecoverSigner(msg, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSignature
	}
	sig = append([]byte{}, sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash(msg), sig)
	if err != nil {
		return common.Address{}, ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// CallerMiddleware identifies the caller of a mutating request from the
// X-Xnames-* headers and stores the address in the gin context.
func (x *Xnames) CallerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		addrHex := c.GetHeader(schema.HeaderAddress)
		tsStr := c.GetHeader(schema.HeaderTimestamp)
		sigHex := c.GetHeader(schema.HeaderSignature)
		if addrHex == "" || tsStr == "" || sigHex == "" {
			abortWith(c, http.StatusUnauthorized, ErrMissingSignature)
			return
		}
		if !common.IsHexAddress(addrHex) {
			abortWith(c, http.StatusBadRequest, schema.ErrInvalidAddress)
			return
		}
		ts, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			abortWith(c, http.StatusBadRequest, ErrInvalidSignature)
			return
		}
		skew := int64(x.now()) - ts
		if skew > schema.MaxSignatureSkew || skew < -schema.MaxSignatureSkew {
			abortWith(c, http.StatusUnauthorized, ErrSignatureExpired)
			return
		}
		sig, err := hexutil.Decode(sigHex)
		if err != nil {
			abortWith(c, http.StatusBadRequest, ErrInvalidSignature)
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, err = io.ReadAll(io.LimitReader(c.Request.Body, schema.MaxBodySize+1))
			c.Request.Body.Close()
			if err != nil {
				abortWith(c, http.StatusBadRequest, err)
				return
			}
			if len(body) > schema.MaxBodySize {
				abortWith(c, http.StatusRequestEntityTooLarge, ErrBodyTooLarge)
				return
			}
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		signer, err := RecoverSigner(schema.SignPayload(c.Request.Method, c.Request.URL.Path, tsStr, body), sig)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, err)
			return
		}
		if signer != common.HexToAddress(addrHex) {
			abortWith(c, http.StatusUnauthorized, ErrInvalidSignature)
			return
		}
		c.Set(callerKey, signer)
		c.Next()
	}
}

func callerOf(c *gin.Context) common.Address {
	v, ok := c.Get(callerKey)
	if !ok {
		return common.Address{}
	}
	return v.(common.Address)
}

func abortWith(c *gin.Context, status int, err error) {
	metricRequestError(err.Error())
	c.AbortWithStatusJSON(status, schema.RespErr{Err: err.Error()})
}
