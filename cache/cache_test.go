package cache

import (
	"testing"
	"time"

	"github.com/everFinance/xnames/rawdb"
	"github.com/everFinance/xnames/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalCache(t *testing.T) {

	cache, err := NewLocalCache(time.Second * 1)

	if err != nil {
		t.Error(err)
	}

	err = cache.Cache.Set("test-key", []byte("test-data"))

	if err != nil {
		t.Error(err)
	}

	data, err := cache.Cache.Get("test-key")

	if err != nil {
		t.Error(err)
	}

	if string(data) != "test-data" {
		t.Error("data not match")
	}

	assert.NoError(t, cache.Cache.Delete("test-key"))
	_, err = cache.Cache.Get("test-key")
	assert.Equal(t, ErrMiss, err)
	assert.NoError(t, cache.Cache.Delete("never-set"))
}

func TestCachedDB(t *testing.T) {
	bolt, err := rawdb.NewBoltDB(t.TempDir())
	require.NoError(t, err)
	db, err := NewCachedDB(bolt, time.Minute)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Get(schema.ConstantsBucket, "k")
	assert.Equal(t, schema.ErrNotExist, err)

	require.NoError(t, db.Put(schema.ConstantsBucket, "k", []byte("v1")))
	data, err := db.Get(schema.ConstantsBucket, "k")
	assert.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	// write through the cache must not leave the old value behind
	require.NoError(t, db.WriteBatch([]schema.KVOp{{Bucket: schema.ConstantsBucket, Key: "k", Value: []byte("v2")}}))
	data, err = db.Get(schema.ConstantsBucket, "k")
	assert.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	require.NoError(t, db.Delete(schema.ConstantsBucket, "k"))
	assert.False(t, db.Exist(schema.ConstantsBucket, "k"))
}
