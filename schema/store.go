package schema

var (
	// authority
	AdminsBucket      = "admins"      // key: address, val: "0x01"
	MaintainersBucket = "maintainers" // key: address, val: "0x01"

	// registry
	ConstantsBucket    = "constants"    // keys: state, owner
	TokenDetailsBucket = "tokenDetails" // key: tokenId, val: json.marshal(TokenData)

	// price oracle
	PriceOracleBucket = "price-oracle" // keys: current_type, price_fixed, price_less, price_more, price_mid

	// undo record of an unfinished batch on object stores
	JournalBucket = "journal" // key: pending, val: json.marshal([]undoRecord)

	AllBuckets = []string{
		AdminsBucket,
		MaintainersBucket,
		ConstantsBucket,
		TokenDetailsBucket,
		PriceOracleBucket,
		JournalBucket,
	}
)

const (
	StateKey = "state"
	OwnerKey = "owner"

	CurrentTypeKey = "current_type"
	PriceFixedKey  = "price_fixed"
	PriceLessKey   = "price_less"
	PriceMoreKey   = "price_more"
	PriceMidKey    = "price_mid"
)

// KVOp is one staged write; a nil Value deletes the key.
type KVOp struct {
	Bucket string
	Key    string
	Value  []byte
}

func (o KVOp) IsDelete() bool {
	return o.Value == nil
}
