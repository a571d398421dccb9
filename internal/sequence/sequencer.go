package sequence

import (
	"context"
	"fmt"

	"github.com/deskwise/workflow-service/internal/domain"
)

// CounterStore atomically allocates the next value of a counter scoped to
// (org, category). The increment must happen inside the storage layer, not
// as read-then-write in application code: callers run concurrently across
// unrelated requests.
type CounterStore interface {
	Next(ctx context.Context, orgID string, category domain.TicketCategory) (int64, error)
}

var categoryPrefixes = map[domain.TicketCategory]string{
	domain.CategoryTicket:         "TKT",
	domain.CategoryIncident:       "INC",
	domain.CategoryServiceRequest: "SR",
	domain.CategoryChange:         "CHG",
	domain.CategoryProblem:        "PRB",
}

// Sequencer allocates human-readable ticket numbers, unique per
// (org, category). Numbers are never reused; gaps are acceptable.
type Sequencer struct {
	store     CounterStore
	minDigits int
}

// NewSequencer constructs a sequencer over the given counter store.
func NewSequencer(store CounterStore) *Sequencer {
	return &Sequencer{store: store, minDigits: 6}
}

// Next allocates the next number for the (org, category) pair,
// e.g. INC-000042.
func (s *Sequencer) Next(ctx context.Context, orgID string, category domain.TicketCategory) (string, error) {
	prefix, ok := categoryPrefixes[category]
	if !ok {
		return "", &domain.InvalidInputError{Field: "category", Value: string(category)}
	}
	counter, err := s.store.Next(ctx, orgID, category)
	if err != nil {
		return "", fmt.Errorf("allocate ticket number: %w", err)
	}
	format := fmt.Sprintf("%%s-%%0%dd", s.minDigits)
	return fmt.Sprintf(format, prefix, counter), nil
}
