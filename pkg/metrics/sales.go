// Package metrics exposes the Prometheus collectors of the sale workflow.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sales counts committed, rejected and deleted sales. A nil *Sales is a no-op.
type Sales struct {
	created  prometheus.Counter
	revenue  prometheus.Counter
	rejected *prometheus.CounterVec
	deleted  prometheus.Counter
}

// NewSales builds the collectors and registers them on reg when it is not nil.
func NewSales(reg prometheus.Registerer) *Sales {
	s := &Sales{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kasir_sales_created_total",
			Help: "Sales committed.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kasir_sales_revenue_total",
			Help: "Sum of committed sale totals in the smallest currency unit.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kasir_sales_rejected_total",
			Help: "Sale attempts rolled back, by reason.",
		}, []string{"reason"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kasir_sales_deleted_total",
			Help: "Sales deleted with stock restored.",
		}),
	}
	if reg != nil {
		reg.MustRegister(s.created, s.revenue, s.rejected, s.deleted)
	}
	return s
}

func (s *Sales) ObserveCreated(total int64) {
	if s == nil {
		return
	}
	s.created.Inc()
	if total > 0 {
		s.revenue.Add(float64(total))
	}
}

func (s *Sales) ObserveRejected(reason string) {
	if s == nil {
		return
	}
	s.rejected.WithLabelValues(reason).Inc()
}

func (s *Sales) ObserveDeleted() {
	if s == nil {
		return
	}
	s.deleted.Inc()
}
