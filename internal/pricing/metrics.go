package pricing

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Quotes *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Quotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "price_quotes_total",
				Help: "Price views computed, by whether a promotion was applied",
			},
			[]string{"promotion"},
		),
	}
	reg.MustRegister(m.Quotes)
	return m
}

func (m *Metrics) observe(v PriceView) {
	if m == nil {
		return
	}
	label := "none"
	if v.PromotionApplied != nil {
		label = "applied"
	}
	m.Quotes.WithLabelValues(label).Inc()
}
