package workflow

import (
	"fmt"

	"github.com/deskwise/workflow-service/internal/domain"
	"github.com/deskwise/workflow-service/internal/events"
)

// Registry holds the validated workflow definition for every category.
// Definitions are loaded once at process start; all lookups afterwards are
// O(1) map reads against pre-built sets with no further validation.
type Registry struct {
	definitions map[domain.TicketCategory]Definition
	statuses    map[domain.TicketCategory]map[domain.TicketStatus]struct{}
	transitions map[domain.TicketCategory]map[domain.TicketStatus]map[domain.TicketStatus]struct{}
	resolved    map[domain.TicketCategory]map[domain.TicketStatus]struct{}
	terminal    map[domain.TicketCategory]map[domain.TicketStatus]struct{}
	eventNames  map[domain.TicketCategory]map[events.Name]struct{}
}

// Load builds the registry from the built-in product definitions and
// validates the priority matrix. A ConfigurationError here must abort
// startup.
func Load() (*Registry, error) {
	if err := ValidatePriorityMatrix(); err != nil {
		return nil, err
	}
	return NewRegistry(builtinDefinitions())
}

// NewRegistry indexes and validates the given definitions.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		definitions: make(map[domain.TicketCategory]Definition, len(defs)),
		statuses:    make(map[domain.TicketCategory]map[domain.TicketStatus]struct{}, len(defs)),
		transitions: make(map[domain.TicketCategory]map[domain.TicketStatus]map[domain.TicketStatus]struct{}, len(defs)),
		resolved:    make(map[domain.TicketCategory]map[domain.TicketStatus]struct{}, len(defs)),
		terminal:    make(map[domain.TicketCategory]map[domain.TicketStatus]struct{}, len(defs)),
		eventNames:  make(map[domain.TicketCategory]map[events.Name]struct{}, len(defs)),
	}
	for _, def := range defs {
		if _, dup := r.definitions[def.Category]; dup {
			return nil, configErr("duplicate definition for category %s", def.Category)
		}
		if err := r.index(def); err != nil {
			return nil, err
		}
	}
	for _, category := range domain.Categories() {
		if _, ok := r.definitions[category]; !ok {
			return nil, configErr("no workflow definition for category %s", category)
		}
	}
	return r, nil
}

func (r *Registry) index(def Definition) error {
	statusSet := make(map[domain.TicketStatus]struct{}, len(def.Statuses))
	for _, s := range def.Statuses {
		if _, dup := statusSet[s]; dup {
			return configErr("category %s declares status %s twice", def.Category, s)
		}
		statusSet[s] = struct{}{}
	}

	if _, ok := statusSet[def.InitialStatus]; !ok {
		return configErr("category %s initial status %s is not declared", def.Category, def.InitialStatus)
	}

	transitionSet := make(map[domain.TicketStatus]map[domain.TicketStatus]struct{}, len(def.Transitions))
	for from, targets := range def.Transitions {
		if _, ok := statusSet[from]; !ok {
			return configErr("category %s transition source %s is not a declared status", def.Category, from)
		}
		targetSet := make(map[domain.TicketStatus]struct{}, len(targets))
		for _, to := range targets {
			if _, ok := statusSet[to]; !ok {
				return configErr("category %s transition target %s is not a declared status", def.Category, to)
			}
			if to == from {
				return configErr("category %s declares self-loop on status %s", def.Category, from)
			}
			targetSet[to] = struct{}{}
		}
		transitionSet[from] = targetSet
	}

	resolvedSet := make(map[domain.TicketStatus]struct{}, len(def.ResolvedStatuses))
	for _, s := range def.ResolvedStatuses {
		if _, ok := statusSet[s]; !ok {
			return configErr("category %s resolved status %s is not declared", def.Category, s)
		}
		resolvedSet[s] = struct{}{}
	}
	terminalSet := make(map[domain.TicketStatus]struct{}, len(def.TerminalStatuses))
	for _, s := range def.TerminalStatuses {
		if _, ok := statusSet[s]; !ok {
			return configErr("category %s terminal status %s is not declared", def.Category, s)
		}
		terminalSet[s] = struct{}{}
	}

	if def.RequiresApproval {
		if _, ok := statusSet[def.ApprovalStatus]; !ok {
			return configErr("category %s approval status %s is not declared", def.Category, def.ApprovalStatus)
		}
	}

	eventSet := make(map[events.Name]struct{}, len(def.NotificationEvents))
	for _, name := range def.NotificationEvents {
		eventSet[name] = struct{}{}
	}
	required := []events.Name{
		events.EventCreated, events.EventStatusChanged, events.EventSLABreach,
		events.EventSLAPaused, events.EventSLAResumed, def.PriorityChangeEvent,
	}
	if len(resolvedSet) > 0 {
		required = append(required, events.EventResolved)
	}
	if def.RequiresApproval {
		required = append(required, events.EventCABReview)
	}
	for _, name := range required {
		if _, ok := eventSet[name]; !ok {
			return configErr("category %s does not declare emitted event %s", def.Category, name)
		}
	}

	r.definitions[def.Category] = def
	r.statuses[def.Category] = statusSet
	r.transitions[def.Category] = transitionSet
	r.resolved[def.Category] = resolvedSet
	r.terminal[def.Category] = terminalSet
	r.eventNames[def.Category] = eventSet
	return nil
}

// Definition returns the category's workflow definition.
func (r *Registry) Definition(category domain.TicketCategory) (Definition, bool) {
	def, ok := r.definitions[category]
	return def, ok
}

// AvailableStatuses returns the category's declared statuses.
func (r *Registry) AvailableStatuses(category domain.TicketCategory) []domain.TicketStatus {
	return r.definitions[category].Statuses
}

// HasStatus reports whether the status is declared for the category.
func (r *Registry) HasStatus(category domain.TicketCategory, status domain.TicketStatus) bool {
	_, ok := r.statuses[category][status]
	return ok
}

// InitialStatus returns the category's designated creation status.
func (r *Registry) InitialStatus(category domain.TicketCategory) domain.TicketStatus {
	return r.definitions[category].InitialStatus
}

// IsTransitionAllowed reports whether from -> to is a declared edge.
// Unknown from statuses yield false, never an error.
func (r *Registry) IsTransitionAllowed(category domain.TicketCategory, from, to domain.TicketStatus) bool {
	_, ok := r.transitions[category][from][to]
	return ok
}

// AllowedTargets returns the statuses reachable directly from the given one.
func (r *Registry) AllowedTargets(category domain.TicketCategory, from domain.TicketStatus) []domain.TicketStatus {
	return r.definitions[category].Transitions[from]
}

// RequiredFields returns the fields that must be non-empty at creation.
func (r *Registry) RequiredFields(category domain.TicketCategory) []string {
	return r.definitions[category].RequiredFields
}

// RequiresApproval reports whether the category has an approval step.
func (r *Registry) RequiresApproval(category domain.TicketCategory) bool {
	return r.definitions[category].RequiresApproval
}

// AllowsPublic reports whether tickets may be publicly visible.
func (r *Registry) AllowsPublic(category domain.TicketCategory) bool {
	return r.definitions[category].AllowsPublic
}

// NotificationEvents returns the event names the category may emit.
func (r *Registry) NotificationEvents(category domain.TicketCategory) []events.Name {
	return r.definitions[category].NotificationEvents
}

// EmitsEvent reports whether the category declares the event name.
func (r *Registry) EmitsEvent(category domain.TicketCategory, name events.Name) bool {
	_, ok := r.eventNames[category][name]
	return ok
}

// IsResolvedStatus reports whether entering the status resolves the ticket.
func (r *Registry) IsResolvedStatus(category domain.TicketCategory, status domain.TicketStatus) bool {
	_, ok := r.resolved[category][status]
	return ok
}

// IsTerminalStatus reports whether leaving the status counts as reopening.
func (r *Registry) IsTerminalStatus(category domain.TicketCategory, status domain.TicketStatus) bool {
	_, ok := r.terminal[category][status]
	return ok
}

func configErr(format string, args ...any) error {
	return &domain.ConfigurationError{Component: "workflow", Detail: fmt.Sprintf(format, args...)}
}
