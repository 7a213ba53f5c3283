package xnames

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/xnames/cache"
	"github.com/everFinance/xnames/rawdb"
	"github.com/everFinance/xnames/schema"
)

const readCacheExpiry = 10 * time.Minute

var setMember = []byte{0x01}

type Store struct {
	KVDb rawdb.KeyValueDB
}

func NewBoltStore(boltDirPath string) (*Store, error) {
	Db, err := rawdb.NewBoltDB(boltDirPath)
	if err != nil {
		return nil, err
	}
	return newCachedStore(Db)
}

func NewS3Store(accKey, secretKey, region, bucketPrefix, endpoint string) (*Store, error) {
	Db, err := rawdb.NewS3DB(accKey, secretKey, region, bucketPrefix, endpoint)
	if err != nil {
		return nil, err
	}
	return newCachedStore(Db)
}

func NewAliyunStore(endpoint, accKey, secretKey, bucketPrefix string) (*Store, error) {
	Db, err := rawdb.NewAliyunDB(endpoint, accKey, secretKey, bucketPrefix)
	if err != nil {
		return nil, err
	}
	return newCachedStore(Db)
}

func NewMongoDBStore(ctx context.Context, uri string) (*Store, error) {
	Db, err := rawdb.NewMongoDB(ctx, uri)
	if err != nil {
		return nil, err
	}
	return newCachedStore(Db)
}

func newCachedStore(db rawdb.KeyValueDB) (*Store, error) {
	cached, err := cache.NewCachedDB(db, readCacheExpiry)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{KVDb: cached}, nil
}

func (s *Store) Close() error {
	return s.KVDb.Close()
}

func addrKey(addr common.Address) string {
	return addr.Hex()
}

func (s *Store) putJSON(bucket, key string, v interface{}) error {
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.KVDb.Put(bucket, key, val); err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// getJSON returns schema.ErrNotExist untouched so callers can test for it.
func (s *Store) getJSON(bucket, key string, v interface{}) error {
	val, err := s.KVDb.Get(bucket, key)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return schema.ErrNotExist
		}
		return fmt.Errorf("get %s/%s: %w", bucket, key, err)
	}
	return json.Unmarshal(val, v)
}

// token details

func (s *Store) SaveTokenData(tokenId string, td schema.TokenData) error {
	return s.putJSON(schema.TokenDetailsBucket, tokenId, td)
}

func (s *Store) LoadTokenData(tokenId string) (td schema.TokenData, err error) {
	err = s.getJSON(schema.TokenDetailsBucket, tokenId, &td)
	return
}

func (s *Store) IsExistTokenData(tokenId string) bool {
	return s.KVDb.Exist(schema.TokenDetailsBucket, tokenId)
}

func (s *Store) DelTokenData(tokenId string) error {
	return s.KVDb.Delete(schema.TokenDetailsBucket, tokenId)
}

func (s *Store) LoadAllTokenIds() ([]string, error) {
	ids, err := s.KVDb.GetAllKey(schema.TokenDetailsBucket)
	if errors.Is(err, schema.ErrNotExist) {
		return []string{}, nil
	}
	return ids, err
}

// constants

func (s *Store) SaveState(state schema.State) error {
	return s.putJSON(schema.ConstantsBucket, schema.StateKey, state)
}

func (s *Store) LoadState() (state schema.State, err error) {
	err = s.getJSON(schema.ConstantsBucket, schema.StateKey, &state)
	if errors.Is(err, schema.ErrNotExist) {
		err = schema.ErrNotInitialized
	}
	return
}

func (s *Store) SaveOwner(owner common.Address) error {
	return s.KVDb.Put(schema.ConstantsBucket, schema.OwnerKey, owner.Bytes())
}

func (s *Store) LoadOwner() (common.Address, error) {
	val, err := s.KVDb.Get(schema.ConstantsBucket, schema.OwnerKey)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return common.Address{}, schema.ErrNotInitialized
		}
		return common.Address{}, err
	}
	return common.BytesToAddress(val), nil
}

func (s *Store) IsInitialized() bool {
	return s.KVDb.Exist(schema.ConstantsBucket, schema.OwnerKey)
}

// address sets

func (s *Store) AddMember(bucket string, addr common.Address) error {
	return s.KVDb.Put(bucket, addrKey(addr), setMember)
}

func (s *Store) RemoveMember(bucket string, addr common.Address) error {
	return s.KVDb.Delete(bucket, addrKey(addr))
}

func (s *Store) IsMember(bucket string, addr common.Address) bool {
	return s.KVDb.Exist(bucket, addrKey(addr))
}

func (s *Store) LoadMembers(bucket string) ([]common.Address, error) {
	keys, err := s.KVDb.GetAllKey(bucket)
	if err != nil && !errors.Is(err, schema.ErrNotExist) {
		return nil, err
	}
	sort.Strings(keys)
	res := make([]common.Address, 0, len(keys))
	for _, k := range keys {
		res = append(res, common.HexToAddress(k))
	}
	return res, nil
}

// price oracle

// SavePriceType stores the tag as a single byte so values written by a newer
// build stay readable as an unknown type.
func (s *Store) SavePriceType(pt schema.PriceType) error {
	return s.KVDb.Put(schema.PriceOracleBucket, schema.CurrentTypeKey, []byte{byte(pt)})
}

func (s *Store) LoadPriceType() (schema.PriceType, error) {
	val, err := s.KVDb.Get(schema.PriceOracleBucket, schema.CurrentTypeKey)
	if err != nil {
		return 0, err
	}
	if len(val) != 1 {
		return 0, fmt.Errorf("malformed %s: %d bytes", schema.CurrentTypeKey, len(val))
	}
	return schema.PriceType(val[0]), nil
}

func (s *Store) SaveAmount(key string, amount *big.Int) error {
	return s.KVDb.Put(schema.PriceOracleBucket, key, []byte(amount.String()))
}

func (s *Store) LoadAmount(key string) (*big.Int, error) {
	val, err := s.KVDb.Get(schema.PriceOracleBucket, key)
	if err != nil {
		if errors.Is(err, schema.ErrNotExist) {
			return big.NewInt(0), nil
		}
		return nil, err
	}
	amount, ok := new(big.Int).SetString(string(val), 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount %s: %q", key, val)
	}
	return amount, nil
}

func (s *Store) SavePriceTiers(tiers []schema.PriceItem) error {
	return s.putJSON(schema.PriceOracleBucket, schema.PriceMidKey, tiers)
}

func (s *Store) LoadPriceTiers() ([]schema.PriceItem, error) {
	tiers := make([]schema.PriceItem, 0)
	err := s.getJSON(schema.PriceOracleBucket, schema.PriceMidKey, &tiers)
	if errors.Is(err, schema.ErrNotExist) {
		return tiers, nil
	}
	return tiers, err
}

func (s *Store) DelPriceTiers() error {
	return s.KVDb.Delete(schema.PriceOracleBucket, schema.PriceMidKey)
}
