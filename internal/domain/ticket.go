package domain

import "time"

// TicketCategory is the fixed ticket type determining workflow rules.
// It is immutable once a ticket has been created.
type TicketCategory string

const (
	CategoryTicket         TicketCategory = "ticket"
	CategoryIncident       TicketCategory = "incident"
	CategoryServiceRequest TicketCategory = "service_request"
	CategoryChange         TicketCategory = "change"
	CategoryProblem        TicketCategory = "problem"
)

// Categories lists every supported category in stable order.
func Categories() []TicketCategory {
	return []TicketCategory{
		CategoryTicket,
		CategoryIncident,
		CategoryServiceRequest,
		CategoryChange,
		CategoryProblem,
	}
}

// TicketStatus enumerates lifecycle states. Which statuses are valid for a
// ticket depends on its category's workflow definition.
type TicketStatus string

const (
	StatusNew              TicketStatus = "new"
	StatusOpen             TicketStatus = "open"
	StatusPending          TicketStatus = "pending"
	StatusResolved         TicketStatus = "resolved"
	StatusClosed           TicketStatus = "closed"
	StatusInvestigating    TicketStatus = "investigating"
	StatusIdentified       TicketStatus = "identified"
	StatusMonitoring       TicketStatus = "monitoring"
	StatusSubmitted        TicketStatus = "submitted"
	StatusAwaitingApproval TicketStatus = "awaiting_approval"
	StatusInProgress       TicketStatus = "in_progress"
	StatusFulfilled        TicketStatus = "fulfilled"
	StatusDraft            TicketStatus = "draft"
	StatusScheduled        TicketStatus = "scheduled"
	StatusImplementing     TicketStatus = "implementing"
	StatusCompleted        TicketStatus = "completed"
	StatusFailed           TicketStatus = "failed"
	StatusLogged           TicketStatus = "logged"
	StatusKnownError       TicketStatus = "known_error"
)

// TicketPriority enumerates SLA priority levels.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

// Priorities lists every priority level in ascending order.
func Priorities() []TicketPriority {
	return []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// ValidPriority reports whether p is a declared priority level.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// RatingLevel is the three-valued scale used for impact and urgency.
type RatingLevel string

const (
	RatingLow    RatingLevel = "low"
	RatingMedium RatingLevel = "medium"
	RatingHigh   RatingLevel = "high"
)

// ValidRating reports whether l is within the three-valued domain.
func ValidRating(l RatingLevel) bool {
	return l == RatingLow || l == RatingMedium || l == RatingHigh
}

// Ticket is the aggregate the workflow engine operates on. Status, priority
// and SLA state are mutated only through the engine; Version gates every
// write (optimistic concurrency).
type Ticket struct {
	ID          string
	OrgID       string
	Number      string
	Category    TicketCategory
	Status      TicketStatus
	Priority    TicketPriority
	Impact      *RatingLevel
	Urgency     *RatingLevel
	Subject     string
	Description string
	Details     CategoryDetails
	SLA         SLAState
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
