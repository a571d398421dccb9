package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskwise/workflow-service/internal/domain"
)

// TicketHistoryRepository persists immutable audit entries.
type TicketHistoryRepository interface {
	Append(ctx context.Context, entry *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository instantiates repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

func (r *ticketHistoryRepository) Append(ctx context.Context, entry *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, actor, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.Actor,
		entry.ChangeType,
		entry.OldValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, actor, change_type, old_value, new_value, created_at
        FROM ticket_history
        WHERE ticket_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.TicketHistory
	for rows.Next() {
		var entry domain.TicketHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.Actor,
			&entry.ChangeType,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
