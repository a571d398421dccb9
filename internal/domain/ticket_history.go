package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus   TicketChangeType = "STATUS_CHANGE"
	ChangeTypePriority TicketChangeType = "PRIORITY_CHANGE"
	ChangeTypeSLA      TicketChangeType = "SLA_CHANGE"
)

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID         string
	TicketID   string
	Actor      string
	ChangeType TicketChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
