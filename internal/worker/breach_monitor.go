package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/deskwise/workflow-service/internal/domain"
	"github.com/deskwise/workflow-service/internal/engine"
	"github.com/deskwise/workflow-service/internal/observability"
	"github.com/deskwise/workflow-service/internal/repository"
)

// BreachMonitor periodically sweeps for tickets whose deadlines have
// passed and asks the engine to re-evaluate them. The engine itself holds
// no timers: breach state is a pure function of stored state and the
// clock, and this monitor is just one more caller. A sweep losing a
// version race simply leaves the ticket for the next pass.
type BreachMonitor struct {
	engine   *engine.Engine
	store    repository.TicketStore
	clock    engine.Clock
	metrics  *observability.Metrics
	logger   *zap.Logger
	interval time.Duration
	batch    int
}

// NewBreachMonitor constructs the monitor.
func NewBreachMonitor(eng *engine.Engine, store repository.TicketStore, clock engine.Clock, metrics *observability.Metrics, logger *zap.Logger, interval time.Duration, batch int) *BreachMonitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if batch <= 0 {
		batch = 100
	}
	return &BreachMonitor{
		engine:   eng,
		store:    store,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		batch:    batch,
	}
}

// Run sweeps until the context is cancelled.
func (m *BreachMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep runs one pass over due tickets.
func (m *BreachMonitor) Sweep(ctx context.Context) {
	if m.metrics != nil {
		m.metrics.RecordSweep()
	}
	ids, err := m.store.ListBreachCandidates(ctx, m.clock.Now(), m.batch)
	if err != nil {
		m.logger.Error("list breach candidates", zap.Error(err))
		return
	}
	for _, id := range ids {
		if _, err := m.engine.ReevaluateSLA(ctx, id); err != nil {
			var conflict *domain.ConcurrentModificationError
			if errors.As(err, &conflict) {
				// someone else touched the ticket; next sweep picks it up
				continue
			}
			m.logger.Error("reevaluate sla", zap.String("ticket_id", id), zap.Error(err))
		}
	}
}
