package dto

import (
	"encoding/json"
	"time"

	"github.com/deskwise/workflow-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	OrgID       string                `json:"org_id"`
	Category    domain.TicketCategory `json:"category"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Impact      *domain.RatingLevel   `json:"impact,omitempty"`
	Urgency     *domain.RatingLevel   `json:"urgency,omitempty"`
	Priority    domain.TicketPriority `json:"priority,omitempty"`
	// Details carries the category-specific fields; its shape depends on
	// Category.
	Details json.RawMessage `json:"details,omitempty"`
}

// TransitionRequest payload.
type TransitionRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Comment string              `json:"comment,omitempty"`
}

// ChangePriorityRequest payload.
type ChangePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// SLAResponse mirrors a ticket's SLA state.
type SLAResponse struct {
	StartedAt               time.Time  `json:"started_at"`
	ResponseBudgetMinutes   int        `json:"response_budget_minutes"`
	ResolutionBudgetMinutes int        `json:"resolution_budget_minutes"`
	ResponseDeadline        time.Time  `json:"response_deadline"`
	ResolutionDeadline      time.Time  `json:"resolution_deadline"`
	PausedAt                *time.Time `json:"paused_at,omitempty"`
	TotalPausedMinutes      int64      `json:"total_paused_minutes"`
	ResponseBreached        bool       `json:"response_breached"`
	ResolutionBreached      bool       `json:"resolution_breached"`
}

// TicketResponse response.
type TicketResponse struct {
	ID          string                `json:"id"`
	OrgID       string                `json:"org_id"`
	Number      string                `json:"number"`
	Category    domain.TicketCategory `json:"category"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Impact      *domain.RatingLevel   `json:"impact,omitempty"`
	Urgency     *domain.RatingLevel   `json:"urgency,omitempty"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Details     domain.CategoryDetails `json:"details,omitempty"`
	SLA         SLAResponse           `json:"sla"`
	Version     int64                 `json:"version"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// HistoryResponse response.
type HistoryResponse struct {
	ID         string                  `json:"id"`
	ChangeType domain.TicketChangeType `json:"change_type"`
	Actor      string                  `json:"actor"`
	OldValue   map[string]any          `json:"old_value,omitempty"`
	NewValue   map[string]any          `json:"new_value,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}
