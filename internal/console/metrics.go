package console

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	LoginsTotal          *prometheus.CounterVec
	CommandsTotal        *prometheus.CounterVec
	CommandPanicsTotal   prometheus.Counter
	DateRetriesExhausted prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "console_logins_total", Help: "Login attempts by result."},
			[]string{"result"},
		),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "console_commands_total", Help: "Menu commands run."},
			[]string{"command"},
		),
		CommandPanicsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "console_command_panics_total", Help: "Menu commands that panicked and were recovered."},
		),
		DateRetriesExhausted: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "console_date_retries_exhausted_total", Help: "Ticket creations abandoned after too many invalid dates."},
		),
	}
	reg.MustRegister(m.LoginsTotal, m.CommandsTotal, m.CommandPanicsTotal, m.DateRetriesExhausted)
	return m
}

func (m *Metrics) login(result string) {
	if m != nil {
		m.LoginsTotal.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) command(name string) {
	if m != nil {
		m.CommandsTotal.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) panicked() {
	if m != nil {
		m.CommandPanicsTotal.Inc()
	}
}

func (m *Metrics) retriesExhausted() {
	if m != nil {
		m.DateRetriesExhausted.Inc()
	}
}
