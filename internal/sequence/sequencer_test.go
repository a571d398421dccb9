package sequence_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskwise/workflow-service/internal/domain"
	"github.com/deskwise/workflow-service/internal/sequence"
)

// memoryCounterStore increments counters under a lock, mimicking the
// atomicity the SQL and Redis backends provide.
type memoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newMemoryCounterStore() *memoryCounterStore {
	return &memoryCounterStore{counters: make(map[string]int64)}
}

func (s *memoryCounterStore) Next(_ context.Context, orgID string, category domain.TicketCategory) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := orgID + "/" + string(category)
	s.counters[key]++
	return s.counters[key], nil
}

func TestSequencerFormatsNumbers(t *testing.T) {
	seq := sequence.NewSequencer(newMemoryCounterStore())
	ctx := context.Background()

	first, err := seq.Next(ctx, "acme", domain.CategoryIncident)
	require.NoError(t, err)
	require.Equal(t, "INC-000001", first)

	second, err := seq.Next(ctx, "acme", domain.CategoryIncident)
	require.NoError(t, err)
	require.Equal(t, "INC-000002", second)
}

func TestSequencerScopesCountersPerOrgAndCategory(t *testing.T) {
	seq := sequence.NewSequencer(newMemoryCounterStore())
	ctx := context.Background()

	incident, err := seq.Next(ctx, "acme", domain.CategoryIncident)
	require.NoError(t, err)
	change, err := seq.Next(ctx, "acme", domain.CategoryChange)
	require.NoError(t, err)
	otherOrg, err := seq.Next(ctx, "globex", domain.CategoryIncident)
	require.NoError(t, err)

	require.Equal(t, "INC-000001", incident)
	require.Equal(t, "CHG-000001", change)
	require.Equal(t, "INC-000001", otherOrg)
}

func TestSequencerRejectsUnknownCategory(t *testing.T) {
	seq := sequence.NewSequencer(newMemoryCounterStore())

	_, err := seq.Next(context.Background(), "acme", "task")
	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "category", invalid.Field)
}

func TestSequencerConcurrentAllocationsAreDistinct(t *testing.T) {
	seq := sequence.NewSequencer(newMemoryCounterStore())
	ctx := context.Background()

	const n = 100
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := seq.Next(ctx, "acme", domain.CategoryTicket)
			if err != nil {
				results <- fmt.Sprintf("error: %v", err)
				return
			}
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]struct{}, n)
	for number := range results {
		_, dup := seen[number]
		require.False(t, dup, "duplicate ticket number %s", number)
		seen[number] = struct{}{}
	}
	require.Len(t, seen, n)
}

func TestSequencerNumbersGrowPastPadding(t *testing.T) {
	store := newMemoryCounterStore()
	store.counters["acme/"+string(domain.CategoryServiceRequest)] = 999999

	seq := sequence.NewSequencer(store)
	number, err := seq.Next(context.Background(), "acme", domain.CategoryServiceRequest)
	require.NoError(t, err)
	require.Equal(t, "SR-1000000", number)
}
