package services

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
)

// Metrics holds the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	toggles         *prometheus.CounterVec
	persistFailures prometheus.Counter
	resets          prometheus.Counter
	installOutcomes *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		toggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rpas_checklist_toggles_total",
				Help: "Checklist item toggles by category",
			},
			[]string{"category"},
		),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rpas_checklist_persist_failures_total",
			Help: "Checklist state writes or deletes that failed",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rpas_checklist_resets_total",
			Help: "Checklist resets",
		}),
		installOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rpas_install_outcomes_total",
				Help: "Home-screen install prompt outcomes",
			},
			[]string{"outcome"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.toggles, m.persistFailures, m.resets, m.installOutcomes)
	}
	return m
}

func (m *Metrics) toggled(category entities.CategoryName) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(string(category)).Inc()
}

func (m *Metrics) persistFailed() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) reset() {
	if m == nil {
		return
	}
	m.resets.Inc()
}

func (m *Metrics) installed(outcome entities.InstallOutcome) {
	if m == nil {
		return
	}
	m.installOutcomes.WithLabelValues(string(outcome)).Inc()
}
