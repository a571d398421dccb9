package workflow

import (
	"strings"

	"github.com/deskwise/workflow-service/internal/domain"
)

// Validator checks creation payloads and proposed transitions against the
// registry. It is pure: it never mutates a ticket and has no side effects.
type Validator struct {
	registry *Registry
}

// NewValidator constructs a validator over the given registry.
func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// ValidateCreate checks that every required field for the category is
// present and non-empty. On success it returns the category's initial
// status; on failure the error names every missing field at once.
func (v *Validator) ValidateCreate(category domain.TicketCategory, fields map[string]string) (domain.TicketStatus, error) {
	def, ok := v.registry.Definition(category)
	if !ok {
		return "", &domain.InvalidInputError{Field: "category", Value: string(category)}
	}
	var missing []string
	for _, name := range def.RequiredFields {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &domain.MissingFieldsError{Category: category, Fields: missing}
	}
	return def.InitialStatus, nil
}

// ValidateTransition checks the proposed status change against the
// category's transition table. No-op updates are rejected here so the
// registry only ever sees real state changes.
func (v *Validator) ValidateTransition(category domain.TicketCategory, current, requested domain.TicketStatus) error {
	if _, ok := v.registry.Definition(category); !ok {
		return &domain.InvalidInputError{Field: "category", Value: string(category)}
	}
	if !v.registry.HasStatus(category, current) {
		return &domain.InvalidInputError{Field: "current_status", Value: string(current)}
	}
	if !v.registry.HasStatus(category, requested) {
		return &domain.InvalidInputError{Field: "requested_status", Value: string(requested)}
	}
	if current == requested || !v.registry.IsTransitionAllowed(category, current, requested) {
		return &domain.IllegalTransitionError{
			Category:  category,
			Current:   current,
			Requested: requested,
			Allowed:   v.registry.AllowedTargets(category, current),
		}
	}
	return nil
}
