package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/deskhand-io/deskhand/pkg/domain"
)

func TestHooksFeedCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTurnProcessed(ctx, &domain.TurnEvent{
		Step:     domain.StepGreeting,
		NextStep: domain.StepCollectIssue,
	})
	hooks.OnTurnProcessed(ctx, &domain.TurnEvent{
		Step:     domain.StepClarifyDetails,
		NextStep: domain.StepSuggestCategory,
		Category: domain.CategoryBilling,
	})
	hooks.OnTicketCreated(ctx, &domain.TicketEvent{TicketID: "t-1"})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.turnsTotal.WithLabelValues("greeting")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.turnsTotal.WithLabelValues("clarify_details")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.categoryDetections.WithLabelValues("billing")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ticketsCreated))
}
