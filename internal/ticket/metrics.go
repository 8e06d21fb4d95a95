package ticket

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	CreatedTotal       prometheus.Counter
	RejectedTotal      *prometheus.CounterVec
	StatusChangesTotal *prometheus.CounterVec
	ByStatus           *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tickets_created_total", Help: "Tickets created."},
		),
		RejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "ticket_operations_rejected_total", Help: "Ticket operations rejected by validation."},
			[]string{"operation", "reason"},
		),
		StatusChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "ticket_status_changes_total", Help: "Ticket status changes by target status."},
			[]string{"status"},
		),
		ByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "tickets", Help: "Tickets currently held, by status."},
			[]string{"status"},
		),
	}
	reg.MustRegister(m.CreatedTotal, m.RejectedTotal, m.StatusChangesTotal, m.ByStatus)
	return m
}

func (m *Metrics) created(status string) {
	if m == nil {
		return
	}
	m.CreatedTotal.Inc()
	m.ByStatus.WithLabelValues(status).Inc()
}

func (m *Metrics) rejected(operation, reason string) {
	if m == nil {
		return
	}
	m.RejectedTotal.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) statusChanged(from, to string) {
	if m == nil {
		return
	}
	m.StatusChangesTotal.WithLabelValues(to).Inc()
	m.ByStatus.WithLabelValues(from).Dec()
	m.ByStatus.WithLabelValues(to).Inc()
}
