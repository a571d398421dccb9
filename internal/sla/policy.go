package sla

import (
	"fmt"

	"github.com/deskwise/workflow-service/internal/domain"
)

// Policy holds the time budgets for one priority level, in minutes.
type Policy struct {
	ResponseMinutes   int
	ResolutionMinutes int
}

// PolicyTable maps each priority level to its budgets. The table is static
// product configuration, validated once at startup.
type PolicyTable map[domain.TicketPriority]Policy

// DefaultPolicyTable returns the product's budgets.
func DefaultPolicyTable() PolicyTable {
	return PolicyTable{
		domain.PriorityCritical: {ResponseMinutes: 15, ResolutionMinutes: 240},
		domain.PriorityHigh:     {ResponseMinutes: 60, ResolutionMinutes: 480},
		domain.PriorityMedium:   {ResponseMinutes: 240, ResolutionMinutes: 1440},
		domain.PriorityLow:      {ResponseMinutes: 480, ResolutionMinutes: 4320},
	}
}

// Validate checks that every priority level has positive budgets. A failure
// must abort startup.
func (t PolicyTable) Validate() error {
	for _, priority := range domain.Priorities() {
		policy, ok := t[priority]
		if !ok {
			return &domain.ConfigurationError{
				Component: "sla-policy",
				Detail:    fmt.Sprintf("no policy for priority %s", priority),
			}
		}
		if policy.ResponseMinutes <= 0 || policy.ResolutionMinutes <= 0 {
			return &domain.ConfigurationError{
				Component: "sla-policy",
				Detail:    fmt.Sprintf("non-positive budget for priority %s", priority),
			}
		}
	}
	return nil
}

// For returns the policy for the priority. Unknown priority values are an
// input error; a validated table covers all declared levels.
func (t PolicyTable) For(priority domain.TicketPriority) (Policy, error) {
	if !domain.ValidPriority(priority) {
		return Policy{}, &domain.InvalidInputError{Field: "priority", Value: string(priority)}
	}
	policy, ok := t[priority]
	if !ok {
		return Policy{}, &domain.ConfigurationError{
			Component: "sla-policy",
			Detail:    fmt.Sprintf("no policy for priority %s", priority),
		}
	}
	return policy, nil
}
