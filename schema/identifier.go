package schema

const (
	tickerMinLen     = 3
	tickerMaxLen     = 10
	randomSuffixLen  = 6
	MaxTokenIdLength = 255
)

// IsValidTokenIdentifier reports whether id has the ESDT shape TICKER-abcdef:
// 3 to 10 upper case alphanumerics, a dash, then 6 lower case hex characters.
func IsValidTokenIdentifier(id string) bool {
	dash := len(id) - randomSuffixLen - 1
	if dash < tickerMinLen || dash > tickerMaxLen || id[dash] != '-' {
		return false
	}
	for i := 0; i < dash; i++ {
		c := id[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	for i := dash + 1; i < len(id); i++ {
		c := id[i]
		if !(c >= 'a' && c <= 'f') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// PaymentToken resolves the optional createNft payment token and nonce.
// No token means the native token, whose nonce is always 0.
func PaymentToken(token *string, nonce *uint64) (string, uint64, error) {
	if token == nil {
		return NativeToken, 0, nil
	}
	if !IsValidTokenIdentifier(*token) {
		return "", 0, ErrInvalidToken
	}
	if nonce == nil {
		return *token, 0, nil
	}
	return *token, *nonce, nil
}

func ValidTokenId(tokenId string) error {
	if len(tokenId) == 0 || len(tokenId) > MaxTokenIdLength {
		return ErrInvalidTokenId
	}
	return nil
}
