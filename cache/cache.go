package cache

import (
	"errors"
	"time"

	"github.com/everFinance/xnames/common"
	"github.com/everFinance/xnames/rawdb"
	"github.com/everFinance/xnames/schema"
)

var (
	log = common.NewLog("cache")

	ErrMiss = errors.New("cache_miss")
)

type ICache interface {
	Set(key string, entry []byte) error

	Get(key string) ([]byte, error)

	Delete(key string) error

	Reset() error
}

type Cache struct {
	Cache ICache
}

func NewLocalCache(allKeysExpTime time.Duration) (*Cache, error) {
	cache, err := NewBigCache(allKeysExpTime)
	if err != nil {
		return nil, err
	}
	return &Cache{Cache: cache}, nil
}

// CachedDB is a read-through cache in front of a KeyValueDB.
// Every write path drops the touched keys, so readers never see a value older than the db.
type CachedDB struct {
	db    rawdb.KeyValueDB
	cache ICache
}

func NewCachedDB(db rawdb.KeyValueDB, allKeysExpTime time.Duration) (*CachedDB, error) {
	c, err := NewLocalCache(allKeysExpTime)
	if err != nil {
		return nil, err
	}
	return &CachedDB{db: db, cache: c.Cache}, nil
}

func cacheKey(bucket, key string) string {
	return bucket + "/" + key
}

func (c *CachedDB) Put(bucket, key string, value []byte) error {
	if err := c.db.Put(bucket, key, value); err != nil {
		return err
	}
	c.evict(bucket, key)
	return nil
}

func (c *CachedDB) Get(bucket, key string) ([]byte, error) {
	ck := cacheKey(bucket, key)
	if data, err := c.cache.Get(ck); err == nil {
		return append([]byte{}, data...), nil
	}
	data, err := c.db.Get(bucket, key)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ck, data); err != nil {
		log.Warn("cache set failed", "key", ck, "err", err)
	}
	return data, nil
}

func (c *CachedDB) GetAllKey(bucket string) ([]string, error) {
	return c.db.GetAllKey(bucket)
}

func (c *CachedDB) Delete(bucket, key string) error {
	if err := c.db.Delete(bucket, key); err != nil {
		return err
	}
	c.evict(bucket, key)
	return nil
}

func (c *CachedDB) WriteBatch(ops []schema.KVOp) error {
	err := c.db.WriteBatch(ops)
	// a failed batch may be partially applied on non transactional backends
	for _, op := range ops {
		c.evict(op.Bucket, op.Key)
	}
	return err
}

func (c *CachedDB) evict(bucket, key string) {
	if err := c.cache.Delete(cacheKey(bucket, key)); err != nil {
		log.Warn("cache delete failed", "bucket", bucket, "key", key, "err", err)
	}
}

func (c *CachedDB) Close() error {
	if err := c.cache.Reset(); err != nil {
		log.Warn("cache reset failed", "err", err)
	}
	return c.db.Close()
}

func (c *CachedDB) Type() string {
	return c.db.Type()
}

func (c *CachedDB) Exist(bucket, key string) bool {
	if _, err := c.cache.Get(cacheKey(bucket, key)); err == nil {
		return true
	}
	return c.db.Exist(bucket, key)
}
