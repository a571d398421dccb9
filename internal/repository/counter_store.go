package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/deskwise/workflow-service/internal/domain"
)

// PostgresCounterStore allocates ticket numbers from a per (org, category)
// counter row. The increment happens inside a single upsert statement, so
// concurrent callers can never observe the same value.
type PostgresCounterStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCounterStore instantiates the store.
func NewPostgresCounterStore(pool *pgxpool.Pool) *PostgresCounterStore {
	return &PostgresCounterStore{pool: pool}
}

// Next atomically increments and returns the counter.
func (s *PostgresCounterStore) Next(ctx context.Context, orgID string, category domain.TicketCategory) (int64, error) {
	const query = `
        INSERT INTO ticket_counters (org_id, category, counter)
        VALUES ($1, $2, 1)
        ON CONFLICT (org_id, category) DO UPDATE
        SET counter = ticket_counters.counter + 1
        RETURNING counter`
	var counter int64
	if err := s.pool.QueryRow(ctx, query, orgID, category).Scan(&counter); err != nil {
		return 0, fmt.Errorf("increment ticket counter: %w", err)
	}
	return counter, nil
}

// RedisCounterStore allocates ticket numbers with INCR, keeping number
// allocation off the database's write path.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore instantiates the store.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Next atomically increments and returns the counter.
func (s *RedisCounterStore) Next(ctx context.Context, orgID string, category domain.TicketCategory) (int64, error) {
	key := fmt.Sprintf("ticket_seq:%s:%s", orgID, category)
	counter, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment ticket counter: %w", err)
	}
	return counter, nil
}
