// Package metrics exports Prometheus counters for the conversation service.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/deskhand-io/deskhand/pkg/domain"
)

// Metrics holds the counters published on /metrics.
type Metrics struct {
	turnsTotal         *prometheus.CounterVec
	categoryDetections *prometheus.CounterVec
	ticketsCreated     prometheus.Counter
}

// New registers the deskhand counters on the given registerer. Passing nil
// uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		turnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deskhand_turns_total",
			Help: "Number of processed conversation turns, labeled by the step that handled them.",
		}, []string{"step"}),
		categoryDetections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deskhand_category_detections_total",
			Help: "Number of category suggestions produced, labeled by category.",
		}, []string{"category"}),
		ticketsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "deskhand_tickets_created_total",
			Help: "Number of support tickets created from completed conversations.",
		}),
	}
}

// Hooks returns lifecycle hooks that feed the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnProcessed: func(_ context.Context, e *domain.TurnEvent) {
			m.turnsTotal.WithLabelValues(string(e.Step)).Inc()
			if e.Category != "" {
				m.categoryDetections.WithLabelValues(string(e.Category)).Inc()
			}
		},
		OnTicketCreated: func(_ context.Context, _ *domain.TicketEvent) {
			m.ticketsCreated.Inc()
		},
	}
}
