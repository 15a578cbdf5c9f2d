package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts domain outcomes next to the HTTP request metrics.
// A nil *Metrics records nothing.
type Metrics struct {
	documentsCreated *prometheus.CounterVec
	documentsMoved   prometheus.Counter
	treeDropped      prometheus.Counter
}

// NewMetrics creates the domain counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		documentsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_created_total",
				Help: "Total number of documents created, by kind.",
			},
			[]string{"kind"},
		),
		documentsMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "documents_moved_total",
			Help: "Total number of documents moved to another directory.",
		}),
		treeDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tree_dropped_records_total",
			Help: "Total number of records left out of an assembled tree.",
		}),
	}

	for _, c := range []prometheus.Collector{m.documentsCreated, m.documentsMoved, m.treeDropped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) created(kind string) {
	if m == nil {
		return
	}
	m.documentsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) moved() {
	if m == nil {
		return
	}
	m.documentsMoved.Inc()
}

func (m *Metrics) dropped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.treeDropped.Add(float64(n))
}
