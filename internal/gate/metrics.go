package gate

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisions     *prometheus.CounterVec //nolint:gochecknoglobals
	decisionsOnce sync.Once              //nolint:gochecknoglobals
)

func observe(d Decision) {
	decisionsOnce.Do(func() {
		decisions = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hr_portal_gate_decisions_total",
				Help: "Number of access gate decisions, differentiated by outcome.",
			},
			[]string{"decision"},
		)
	})

	decisions.WithLabelValues(d.String()).Inc()
}
