package catalog

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pauljones0/game-deals-catalog/internal/resource"
)

var fetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "catalog",
		Subsystem: "screen",
		Name:      "fetch_duration_seconds",
		Help:      "Time a screen resource spent loading, by resource and outcome.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "outcome"},
)

// track observes how long r stays loading each time it fetches. The
// returned func stops tracking.
func track[P, T any](name string, r *resource.Resource[P, T]) func() {
	var (
		mu    sync.Mutex
		start time.Time
	)
	return r.Subscribe(func(st resource.State[T]) {
		mu.Lock()
		defer mu.Unlock()
		if st.Loading {
			if start.IsZero() {
				start = time.Now()
			}
			return
		}
		if start.IsZero() {
			return
		}
		outcome := "ok"
		if st.Err != nil {
			outcome = "error"
		}
		fetchDuration.WithLabelValues(name, outcome).Observe(time.Since(start).Seconds())
		start = time.Time{}
	})
}
