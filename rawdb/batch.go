package rawdb

import (
	"errors"

	"github.com/everFinance/xnames/schema"
)

const BatchType = "batch"

// Batch stages writes on top of a KeyValueDB until Commit.
// Reads see the staged writes first, so a request observes its own mutations.
// Nothing reaches the underlying db if the batch is discarded.
type Batch struct {
	db    KeyValueDB
	ops   []schema.KVOp
	index map[string]int // bucket+"/"+key -> position in ops
}

func NewBatch(db KeyValueDB) *Batch {
	return &Batch{
		db:    db,
		ops:   make([]schema.KVOp, 0),
		index: make(map[string]int),
	}
}

func (b *Batch) Type() string {
	return BatchType
}

func (b *Batch) stage(bucket, key string, value []byte) {
	id := bucket + "/" + key
	op := schema.KVOp{Bucket: bucket, Key: key, Value: value}
	if i, ok := b.index[id]; ok {
		b.ops[i] = op
		return
	}
	b.index[id] = len(b.ops)
	b.ops = append(b.ops, op)
}

func (b *Batch) staged(bucket, key string) (schema.KVOp, bool) {
	i, ok := b.index[bucket+"/"+key]
	if !ok {
		return schema.KVOp{}, false
	}
	return b.ops[i], true
}

func (b *Batch) Put(bucket, key string, value []byte) error {
	b.stage(bucket, key, append([]byte{}, value...))
	return nil
}

func (b *Batch) Get(bucket, key string) ([]byte, error) {
	if op, ok := b.staged(bucket, key); ok {
		if op.IsDelete() {
			return nil, schema.ErrNotExist
		}
		return append([]byte{}, op.Value...), nil
	}
	return b.db.Get(bucket, key)
}

func (b *Batch) GetAllKey(bucket string) ([]string, error) {
	keys, err := b.db.GetAllKey(bucket)
	if err != nil && !errors.Is(err, schema.ErrNotExist) {
		return nil, err
	}
	res := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
		if op, ok := b.staged(bucket, k); ok && op.IsDelete() {
			continue
		}
		res = append(res, k)
	}
	for _, op := range b.ops {
		if op.Bucket != bucket || op.IsDelete() {
			continue
		}
		if _, ok := seen[op.Key]; !ok {
			res = append(res, op.Key)
		}
	}
	return res, nil
}

func (b *Batch) Delete(bucket, key string) error {
	b.stage(bucket, key, nil)
	return nil
}

func (b *Batch) WriteBatch(ops []schema.KVOp) error {
	for _, op := range ops {
		if op.IsDelete() {
			b.stage(op.Bucket, op.Key, nil)
		} else {
			b.stage(op.Bucket, op.Key, append([]byte{}, op.Value...))
		}
	}
	return nil
}

func (b *Batch) Exist(bucket, key string) bool {
	_, err := b.Get(bucket, key)
	return err == nil
}

// Close drops the staged writes; the underlying db stays open.
func (b *Batch) Close() error {
	b.Discard()
	return nil
}

func (b *Batch) Len() int {
	return len(b.ops)
}

// Commit hands every staged write to the underlying db in one WriteBatch call.
func (b *Batch) Commit() error {
	if len(b.ops) == 0 {
		return nil
	}
	if err := b.db.WriteBatch(b.ops); err != nil {
		return err
	}
	b.Discard()
	return nil
}

func (b *Batch) Discard() {
	b.ops = make([]schema.KVOp, 0)
	b.index = make(map[string]int)
}
