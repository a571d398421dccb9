package events

import (
	"time"

	"github.com/deskwise/workflow-service/internal/domain"
)

// Name identifies a lifecycle event. Which names a category may emit is
// declared by its workflow definition.
type Name string

const (
	EventCreated         Name = "created"
	EventAssigned        Name = "assigned"
	EventStatusChanged   Name = "status_changed"
	EventResolved        Name = "resolved"
	EventSLAPaused       Name = "sla_paused"
	EventSLAResumed      Name = "sla_resumed"
	EventSLABreach       Name = "sla_breach"
	EventPriorityChanged Name = "priority_changed"
	EventSeverityChanged Name = "severity_changed"
	EventCABReview       Name = "cab_review"
)

// Event is the domain event emitted by the workflow engine. The
// notification subsystem consumes this stream; the engine has no knowledge
// of delivery.
type Event struct {
	ID         string                `json:"id"`
	Category   domain.TicketCategory `json:"category"`
	TicketID   string                `json:"ticket_id"`
	EventName  Name                  `json:"event_name"`
	OccurredAt time.Time             `json:"occurred_at"`
	Payload    interface{}           `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	OrgID    string                `json:"org_id"`
	Number   string                `json:"number"`
	Status   domain.TicketStatus   `json:"status"`
	Priority domain.TicketPriority `json:"priority"`
	Subject  string                `json:"subject"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Reopened  bool                `json:"reopened,omitempty"`
	Comment   string              `json:"comment,omitempty"`
}

// PriorityChangedPayload payload.
type PriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// SLAPausePayload payload for pause/resume events.
type SLAPausePayload struct {
	PausedAt           *time.Time    `json:"paused_at,omitempty"`
	PausedFor          time.Duration `json:"paused_for,omitempty"`
	ResponseDeadline   time.Time     `json:"response_deadline"`
	ResolutionDeadline time.Time     `json:"resolution_deadline"`
}

// SLABreachPayload payload.
type SLABreachPayload struct {
	ResponseBreached   bool      `json:"response_breached"`
	ResolutionBreached bool      `json:"resolution_breached"`
	ResponseDeadline   time.Time `json:"response_deadline"`
	ResolutionDeadline time.Time `json:"resolution_deadline"`
}
