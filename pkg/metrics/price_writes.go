package metrics

import "github.com/prometheus/client_golang/prometheus"

// PriceWriteMetrics counts external price mutations issued by bulk apply runs.
type PriceWriteMetrics struct {
	writes *prometheus.CounterVec
}

// NewPriceWriteMetrics registers the price write counters.
func NewPriceWriteMetrics(reg prometheus.Registerer) *PriceWriteMetrics {
	if reg == nil {
		return &PriceWriteMetrics{}
	}
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stitchsync_price_writes_total",
		Help: "External price writes by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(writes)
	return &PriceWriteMetrics{writes: writes}
}

// IncSuccess records one committed price write.
func (p *PriceWriteMetrics) IncSuccess() {
	if p == nil || p.writes == nil {
		return
	}
	p.writes.WithLabelValues("success").Inc()
}

// IncFailure records one failed price write.
func (p *PriceWriteMetrics) IncFailure() {
	if p == nil || p.writes == nil {
		return
	}
	p.writes.WithLabelValues("failure").Inc()
}
