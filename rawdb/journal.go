package rawdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/everFinance/xnames/schema"
)

const journalKey = "pending"

var ErrJournalPending = errors.New("err_journal_pending")

// objectStore is the raw access a journal needs from a store without transactions.
type objectStore interface {
	put(bucket, key string, value []byte) error
	get(bucket, key string) ([]byte, error)
	del(bucket, key string) error
}

type undoRecord struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Value  []byte `json:"value,omitempty"`
	Exist  bool   `json:"exist"`
}

// journal makes WriteBatch all-or-nothing on object stores. The prior value of
// every touched key is saved before the batch is applied and removed after it.
// A leftover undo record means the batch never completed; it is rolled back
// before the store serves anything else.
type journal struct {
	db    objectStore
	lock  sync.Mutex
	dirty bool
}

func newJournal(db objectStore) (*journal, error) {
	j := &journal{db: db}
	j.lock.Lock()
	defer j.lock.Unlock()
	if err := j.recover(); err != nil {
		return nil, err
	}
	return j, nil
}

// ready fails while an unfinished batch cannot be rolled back.
func (j *journal) ready() error {
	j.lock.Lock()
	defer j.lock.Unlock()
	if !j.dirty {
		return nil
	}
	if err := j.recover(); err != nil {
		return fmt.Errorf("%w: %v", ErrJournalPending, err)
	}
	return nil
}

func (j *journal) recover() error {
	data, err := j.db.get(schema.JournalBucket, journalKey)
	if errors.Is(err, schema.ErrNotExist) {
		j.dirty = false
		return nil
	}
	if err != nil {
		j.dirty = true
		return err
	}
	undo := make([]undoRecord, 0)
	if err = json.Unmarshal(data, &undo); err != nil {
		j.dirty = true
		return err
	}
	if err = j.rollback(undo); err != nil {
		j.dirty = true
		return err
	}
	j.dirty = false
	log.Warn("rolled back unfinished batch", "ops", len(undo))
	return nil
}

func (j *journal) rollback(undo []undoRecord) error {
	for i := len(undo) - 1; i >= 0; i-- {
		u := undo[i]
		var err error
		if u.Exist {
			err = j.db.put(u.Bucket, u.Key, u.Value)
		} else {
			err = j.db.del(u.Bucket, u.Key)
		}
		if err != nil && !errors.Is(err, schema.ErrNotExist) {
			return err
		}
	}
	err := j.db.del(schema.JournalBucket, journalKey)
	if errors.Is(err, schema.ErrNotExist) {
		return nil
	}
	return err
}

func (j *journal) writeBatch(ops []schema.KVOp) error {
	j.lock.Lock()
	defer j.lock.Unlock()
	if j.dirty {
		if err := j.recover(); err != nil {
			return fmt.Errorf("%w: %v", ErrJournalPending, err)
		}
	}
	if len(ops) == 0 {
		return nil
	}

	undo := make([]undoRecord, 0, len(ops))
	for _, op := range ops {
		val, err := j.db.get(op.Bucket, op.Key)
		switch {
		case err == nil:
			undo = append(undo, undoRecord{Bucket: op.Bucket, Key: op.Key, Value: val, Exist: true})
		case errors.Is(err, schema.ErrNotExist):
			undo = append(undo, undoRecord{Bucket: op.Bucket, Key: op.Key})
		default:
			return err
		}
	}
	data, err := json.Marshal(undo)
	if err != nil {
		return err
	}
	if err = j.db.put(schema.JournalBucket, journalKey, data); err != nil {
		return j.abort(undo, err)
	}

	for _, op := range ops {
		if op.IsDelete() {
			err = j.db.del(op.Bucket, op.Key)
		} else {
			err = j.db.put(op.Bucket, op.Key, op.Value)
		}
		if err != nil {
			return j.abort(undo, err)
		}
	}
	if err = j.db.del(schema.JournalBucket, journalKey); err != nil {
		return j.abort(undo, err)
	}
	return nil
}

func (j *journal) abort(undo []undoRecord, cause error) error {
	if err := j.rollback(undo); err != nil {
		j.dirty = true
		log.Error("rollback batch failed", "err", err, "cause", cause)
	}
	return cause
}
