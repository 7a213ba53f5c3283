package xnames

import (
	"github.com/everFinance/xnames/schema"
)

func (x *Xnames) runJobs() {
	x.scheduler.Every(5).Minute().SingletonMode().Do(x.exportTokenStatus)
	x.scheduler.Every(30).Seconds().SingletonMode().Do(x.retryEvents)

	x.scheduler.StartAsync()
}

// exportTokenStatus recomputes every live token's status and publishes the counts.
func (x *Xnames) exportTokenStatus() {
	counts := make(map[schema.ExpiryKind]int)
	err := x.View(func(r *Request) error {
		ids, err := r.store.LoadAllTokenIds()
		if err != nil {
			return err
		}
		for _, id := range ids {
			st, err := r.SubscriptionStatus(r.Now, id)
			if err != nil {
				log.Warn("r.SubscriptionStatus(r.Now, id)", "err", err, "tokenId", id)
				continue
			}
			if st == nil {
				continue
			}
			counts[st.Status.Kind]++
		}
		return nil
	})
	if err != nil {
		log.Error("exportTokenStatus", "err", err)
		return
	}
	metricTokenStatus(counts)
}
