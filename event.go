package xnames

import (
	"encoding/json"
	"sync"

	"github.com/everFinance/xnames/schema"
	"github.com/panjf2000/ants/v2"
)

func eventRow(e schema.Event, published bool) (schema.RegistryEvent, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return schema.RegistryEvent{}, err
	}
	return schema.RegistryEvent{
		EventId:   e.Id,
		Name:      e.Name,
		TokenId:   e.TokenId,
		Timestamp: e.Timestamp,
		Payload:   payload,
		Published: published,
	}, nil
}

// publishEvents appends committed events to the event log and hands them to kafka.
// Events kafka did not accept stay unpublished for retryEvents.
func (x *Xnames) publishEvents(events []schema.Event) {
	if len(events) == 0 {
		return
	}
	noKafka := x.kWriter == nil

	if x.wdb != nil {
		rows := make([]schema.RegistryEvent, 0, len(events))
		for _, e := range events {
			row, err := eventRow(e, noKafka)
			if err != nil {
				log.Error("eventRow(e)", "err", err, "eventId", e.Id)
				continue
			}
			rows = append(rows, row)
		}
		if err := x.wdb.InsertEvents(rows); err != nil {
			log.Error("x.wdb.InsertEvents(rows)", "err", err)
		}
	}
	if noKafka {
		return
	}

	if err := x.pool.Submit(func() {
		for _, e := range events {
			body, err := json.Marshal(e)
			if err != nil {
				log.Error("json.Marshal(e)", "err", err, "eventId", e.Id)
				continue
			}
			if err := x.kWriter.Write(e.TokenId, body); err != nil {
				log.Warn("kafka write failed, wait retry", "eventId", e.Id, "err", err)
				return
			}
			x.markPublished(e.Id)
		}
	}); err != nil {
		log.Error("x.pool.Submit(publish events)", "err", err)
	}
}

func (x *Xnames) markPublished(eventId string) {
	if x.wdb == nil {
		return
	}
	if err := x.wdb.MarkPublished(eventId); err != nil {
		log.Error("x.wdb.MarkPublished(eventId)", "err", err, "eventId", eventId)
	}
}

func (x *Xnames) retryEvents() {
	if x.kWriter == nil || x.wdb == nil {
		return
	}
	rows, err := x.wdb.GetUnpublishedEvents(100)
	if err != nil {
		log.Error("x.wdb.GetUnpublishedEvents(100)", "err", err)
		return
	}
	if len(rows) == 0 {
		return
	}

	log.Debug("retry unpublished events", "number", len(rows))
	err = invokeEach(10, rows, func(row schema.RegistryEvent) {
		if err := x.kWriter.Write(row.TokenId, row.Payload); err != nil {
			log.Warn("retry kafka write failed", "eventId", row.EventId, "err", err)
			return
		}
		x.markPublished(row.EventId)
	})
	if err != nil {
		log.Error("invokeEach(10, rows)", "err", err)
	}
}

// invokeEach runs fn for every row on a pool of size workers and waits for
// them. Rows the pool refuses are skipped and picked up by the next run.
func invokeEach(size int, rows []schema.RegistryEvent, fn func(schema.RegistryEvent), opts ...ants.Option) error {
	var wg sync.WaitGroup
	p, err := ants.NewPoolWithFunc(size, func(i interface{}) {
		defer wg.Done()
		fn(i.(schema.RegistryEvent))
	}, opts...)
	if err != nil {
		return err
	}
	defer p.Release()

	for _, row := range rows {
		wg.Add(1)
		if err := p.Invoke(row); err != nil {
			wg.Done()
			log.Warn("p.Invoke(row)", "eventId", row.EventId, "err", err)
		}
	}
	wg.Wait()
	return nil
}
