package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskwise/workflow-service/internal/domain"
)

// TicketStore persists tickets with version-gated writes.
type TicketStore interface {
	Load(ctx context.Context, id string) (*domain.Ticket, error)
	Insert(ctx context.Context, ticket *domain.Ticket) error
	CompareAndSwap(ctx context.Context, expectedVersion int64, ticket *domain.Ticket) error
	// ListBreachCandidates returns ids of unpaused tickets with a deadline
	// past `now` whose breach flag is not yet set.
	ListBreachCandidates(ctx context.Context, now time.Time, limit int) ([]string, error)
}

type ticketStore struct {
	pool *pgxpool.Pool
}

// NewTicketStore instantiates the Postgres-backed store.
func NewTicketStore(pool *pgxpool.Pool) TicketStore {
	return &ticketStore{pool: pool}
}

const ticketColumns = `
        id, org_id, number, category, status, priority, impact, urgency,
        subject, description, details,
        sla_started_at, response_budget_minutes, resolution_budget_minutes,
        response_deadline, resolution_deadline, paused_at, total_paused_seconds,
        response_breached, resolution_breached,
        version, created_at, updated_at`

func (r *ticketStore) Load(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketStore) Insert(ctx context.Context, ticket *domain.Ticket) error {
	details, err := domain.MarshalDetails(ticket.Details)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO tickets (
            id, org_id, number, category, status, priority, impact, urgency,
            subject, description, details,
            sla_started_at, response_budget_minutes, resolution_budget_minutes,
            response_deadline, resolution_deadline, paused_at, total_paused_seconds,
            response_breached, resolution_breached,
            version, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)`
	_, err = r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.OrgID,
		ticket.Number,
		ticket.Category,
		ticket.Status,
		ticket.Priority,
		ratingValue(ticket.Impact),
		ratingValue(ticket.Urgency),
		ticket.Subject,
		ticket.Description,
		details,
		ticket.SLA.StartedAt,
		ticket.SLA.ResponseBudgetMinutes,
		ticket.SLA.ResolutionBudgetMinutes,
		ticket.SLA.ResponseDeadline,
		ticket.SLA.ResolutionDeadline,
		ticket.SLA.PausedAt,
		int64(ticket.SLA.TotalPausedDuration/time.Second),
		ticket.SLA.ResponseBreached,
		ticket.SLA.ResolutionBreached,
		ticket.Version,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return err
}

// CompareAndSwap writes the mutable triple (status, priority, SLA) plus the
// bumped version, conditioned on the stored version still matching. The
// engine loads before writing, so zero affected rows means a concurrent
// writer won.
func (r *ticketStore) CompareAndSwap(ctx context.Context, expectedVersion int64, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET
            status=$1, priority=$2,
            sla_started_at=$3, response_budget_minutes=$4, resolution_budget_minutes=$5,
            response_deadline=$6, resolution_deadline=$7, paused_at=$8, total_paused_seconds=$9,
            response_breached=$10, resolution_breached=$11,
            version=$12, updated_at=$13
        WHERE id=$14 AND version=$15`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.Priority,
		ticket.SLA.StartedAt,
		ticket.SLA.ResponseBudgetMinutes,
		ticket.SLA.ResolutionBudgetMinutes,
		ticket.SLA.ResponseDeadline,
		ticket.SLA.ResolutionDeadline,
		ticket.SLA.PausedAt,
		int64(ticket.SLA.TotalPausedDuration/time.Second),
		ticket.SLA.ResponseBreached,
		ticket.SLA.ResolutionBreached,
		ticket.Version,
		ticket.UpdatedAt,
		ticket.ID,
		expectedVersion,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return &domain.ConcurrentModificationError{TicketID: ticket.ID, ExpectedVersion: expectedVersion}
	}
	return nil
}

func (r *ticketStore) ListBreachCandidates(ctx context.Context, now time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
        SELECT id FROM tickets
        WHERE paused_at IS NULL
          AND ((response_deadline < $1 AND NOT response_breached)
            OR (resolution_deadline < $1 AND NOT resolution_breached))
        ORDER BY resolution_deadline
        LIMIT $2`
	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ticketStore) scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		impact       *string
		urgency      *string
		details      []byte
		pausedAt     *time.Time
		pausedSecond int64
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.OrgID,
		&ticket.Number,
		&ticket.Category,
		&ticket.Status,
		&ticket.Priority,
		&impact,
		&urgency,
		&ticket.Subject,
		&ticket.Description,
		&details,
		&ticket.SLA.StartedAt,
		&ticket.SLA.ResponseBudgetMinutes,
		&ticket.SLA.ResolutionBudgetMinutes,
		&ticket.SLA.ResponseDeadline,
		&ticket.SLA.ResolutionDeadline,
		&pausedAt,
		&pausedSecond,
		&ticket.SLA.ResponseBreached,
		&ticket.SLA.ResolutionBreached,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Impact = ratingPtr(impact)
	ticket.Urgency = ratingPtr(urgency)
	ticket.SLA.PausedAt = pausedAt
	ticket.SLA.TotalPausedDuration = time.Duration(pausedSecond) * time.Second

	decoded, err := domain.UnmarshalDetails(ticket.Category, details)
	if err != nil {
		return nil, err
	}
	ticket.Details = decoded
	return &ticket, nil
}

func ratingValue(l *domain.RatingLevel) *string {
	if l == nil {
		return nil
	}
	s := string(*l)
	return &s
}

func ratingPtr(s *string) *domain.RatingLevel {
	if s == nil {
		return nil
	}
	l := domain.RatingLevel(*s)
	return &l
}
