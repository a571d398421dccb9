package domain

import (
	"fmt"
	"strings"
)

// InvalidInputError reports a value outside its enumerated domain, such as
// an impact or urgency level that is not low/medium/high. Values are never
// silently clamped.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// MissingFieldsError reports every required field absent from a creation
// request, so callers can surface all problems at once.
type MissingFieldsError struct {
	Category TicketCategory
	Fields   []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s creation missing required fields: %s", e.Category, strings.Join(e.Fields, ", "))
}

// IllegalTransitionError reports a status change not present in the
// category's transition table, carrying the legal alternatives.
type IllegalTransitionError struct {
	Category  TicketCategory
	Current   TicketStatus
	Requested TicketStatus
	Allowed   []TicketStatus
}

func (e *IllegalTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("illegal %s transition %s -> %s (allowed: %s)",
		e.Category, e.Current, e.Requested, strings.Join(allowed, ", "))
}

// ConcurrentModificationError reports an optimistic version check failure.
// The caller must reload the ticket and retry against fresh state.
type ConcurrentModificationError struct {
	TicketID        string
	ExpectedVersion int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("ticket %s modified concurrently (expected version %d)", e.TicketID, e.ExpectedVersion)
}

// ConfigurationError reports an inconsistent workflow or SLA policy table.
// It is raised once at startup; the process must refuse to start.
type ConfigurationError struct {
	Component string
	Detail    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s configuration: %s", e.Component, e.Detail)
}
