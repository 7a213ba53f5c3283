package rawdb

import (
	"github.com/everFinance/xnames/common"
	"github.com/everFinance/xnames/schema"
)

var log = common.NewLog("rawdb")

type KeyValueDB interface {
	Put(bucket, key string, value []byte) (err error)

	Get(bucket, key string) (data []byte, err error)

	GetAllKey(bucket string) (keys []string, err error)

	Delete(bucket, key string) (err error)

	// WriteBatch applies ops in order, all or nothing. Object stores go through an undo journal.
	WriteBatch(ops []schema.KVOp) (err error)

	Close() (err error)

	Type() string

	Exist(bucket, key string) bool
}
