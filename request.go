package xnames

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/xnames/rawdb"
	"github.com/everFinance/xnames/schema"
)

// Request is the execution scope of one inbound operation. Its components
// read and write a staged batch that is committed only if the operation succeeds.
type Request struct {
	*Registry

	Caller common.Address
	Now    uint64

	batch  *rawdb.Batch
	orders []schema.MintOrder
}

func (x *Xnames) newRequest(caller common.Address) *Request {
	batch := rawdb.NewBatch(x.store.KVDb)
	return &Request{
		Registry: NewRegistry(&Store{KVDb: batch}),
		Caller:   caller,
		Now:      x.now(),
		batch:    batch,
		orders:   make([]schema.MintOrder, 0),
	}
}

// AddOrder queues a read model row written after the request commits.
func (r *Request) AddOrder(order schema.MintOrder) {
	r.orders = append(r.orders, order)
}

// Execute runs fn as one all-or-nothing request. Requests are serialised.
// On success the staged writes are committed in a single WriteBatch, then
// notifications are published and the marketplace call, if any, is dispatched.
func (x *Xnames) Execute(caller common.Address, fn func(req *Request) error) error {
	x.locker.Lock()
	defer x.locker.Unlock()

	req := x.newRequest(caller)
	if err := fn(req); err != nil {
		req.batch.Discard()
		return err
	}
	if err := req.batch.Commit(); err != nil {
		log.Error("commit request failed", "caller", caller, "ops", req.batch.Len(), "err", err)
		return fmt.Errorf("commit request: %w", err)
	}
	x.afterCommit(req)
	return nil
}

// View runs fn against committed state. Anything fn writes is dropped.
func (x *Xnames) View(fn func(req *Request) error) error {
	x.locker.RLock()
	defer x.locker.RUnlock()

	req := x.newRequest(common.Address{})
	defer req.batch.Discard()
	return fn(req)
}

func (x *Xnames) afterCommit(req *Request) {
	for _, e := range req.Events() {
		metricEvent(e.Name)
	}
	if len(req.orders) > 0 && x.wdb != nil {
		if err := x.wdb.InsertMintOrders(req.orders); err != nil {
			log.Error("x.wdb.InsertMintOrders(req.orders)", "err", err)
		}
	}
	x.publishEvents(req.Events())

	if claim := req.Claim(); claim != nil {
		x.dispatchClaim(*claim)
	}
}
