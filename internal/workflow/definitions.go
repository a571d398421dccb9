package workflow

import (
	"github.com/deskwise/workflow-service/internal/domain"
	"github.com/deskwise/workflow-service/internal/events"
)

// Definition is the immutable workflow description for one category.
type Definition struct {
	Category      domain.TicketCategory
	InitialStatus domain.TicketStatus
	Statuses      []domain.TicketStatus
	// Transitions lists the statuses directly reachable from each status.
	// Self-loops are forbidden; reopening is an explicit edge, never inferred.
	Transitions map[domain.TicketStatus][]domain.TicketStatus
	// RequiredFields must be non-empty before a ticket may be created.
	RequiredFields   []string
	RequiresApproval bool
	// ApprovalStatus is the status whose entry emits a review event.
	// Only meaningful when RequiresApproval is set.
	ApprovalStatus domain.TicketStatus
	AllowsPublic   bool
	// ResolvedStatuses are the statuses whose entry emits the resolved event.
	ResolvedStatuses []domain.TicketStatus
	// TerminalStatuses are statuses from which a transition back to an active
	// status counts as reopening and establishes a fresh SLA window.
	TerminalStatuses []domain.TicketStatus
	// PriorityChangeEvent is emitted when the ticket's priority changes.
	PriorityChangeEvent events.Name
	// NotificationEvents enumerates every event name the category may emit.
	NotificationEvents []events.Name
}

func builtinDefinitions() []Definition {
	return []Definition{
		{
			Category:      domain.CategoryTicket,
			InitialStatus: domain.StatusNew,
			Statuses: []domain.TicketStatus{
				domain.StatusNew, domain.StatusOpen, domain.StatusPending,
				domain.StatusResolved, domain.StatusClosed,
			},
			Transitions: map[domain.TicketStatus][]domain.TicketStatus{
				domain.StatusNew:      {domain.StatusOpen},
				domain.StatusOpen:     {domain.StatusPending, domain.StatusResolved},
				domain.StatusPending:  {domain.StatusOpen, domain.StatusResolved},
				domain.StatusResolved: {domain.StatusClosed, domain.StatusOpen},
				domain.StatusClosed:   {domain.StatusOpen},
			},
			RequiredFields:      []string{"subject", "description"},
			AllowsPublic:        true,
			ResolvedStatuses:    []domain.TicketStatus{domain.StatusResolved},
			TerminalStatuses:    []domain.TicketStatus{domain.StatusResolved, domain.StatusClosed},
			PriorityChangeEvent: events.EventPriorityChanged,
			NotificationEvents: []events.Name{
				events.EventCreated, events.EventAssigned, events.EventStatusChanged,
				events.EventResolved, events.EventSLAPaused, events.EventSLAResumed,
				events.EventSLABreach, events.EventPriorityChanged,
			},
		},
		{
			Category:      domain.CategoryIncident,
			InitialStatus: domain.StatusNew,
			Statuses: []domain.TicketStatus{
				domain.StatusNew, domain.StatusInvestigating, domain.StatusIdentified,
				domain.StatusMonitoring, domain.StatusResolved, domain.StatusClosed,
			},
			Transitions: map[domain.TicketStatus][]domain.TicketStatus{
				domain.StatusNew:           {domain.StatusInvestigating},
				domain.StatusInvestigating: {domain.StatusIdentified, domain.StatusMonitoring, domain.StatusResolved},
				domain.StatusIdentified:    {domain.StatusMonitoring, domain.StatusResolved},
				domain.StatusMonitoring:    {domain.StatusResolved, domain.StatusInvestigating},
				domain.StatusResolved:      {domain.StatusClosed, domain.StatusInvestigating},
				domain.StatusClosed:        {domain.StatusInvestigating},
			},
			RequiredFields:      []string{"subject", "description", "impact", "urgency", "affectedService"},
			AllowsPublic:        true,
			ResolvedStatuses:    []domain.TicketStatus{domain.StatusResolved},
			TerminalStatuses:    []domain.TicketStatus{domain.StatusResolved, domain.StatusClosed},
			PriorityChangeEvent: events.EventSeverityChanged,
			NotificationEvents: []events.Name{
				events.EventCreated, events.EventAssigned, events.EventStatusChanged,
				events.EventResolved, events.EventSLAPaused, events.EventSLAResumed,
				events.EventSLABreach, events.EventSeverityChanged,
			},
		},
		{
			Category:      domain.CategoryServiceRequest,
			InitialStatus: domain.StatusSubmitted,
			Statuses: []domain.TicketStatus{
				domain.StatusSubmitted, domain.StatusAwaitingApproval,
				domain.StatusInProgress, domain.StatusFulfilled, domain.StatusClosed,
			},
			Transitions: map[domain.TicketStatus][]domain.TicketStatus{
				domain.StatusSubmitted:        {domain.StatusAwaitingApproval, domain.StatusInProgress},
				domain.StatusAwaitingApproval: {domain.StatusInProgress, domain.StatusClosed},
				domain.StatusInProgress:       {domain.StatusFulfilled},
				domain.StatusFulfilled:        {domain.StatusClosed},
				domain.StatusClosed:           {},
			},
			RequiredFields:      []string{"subject", "description", "requestedItem"},
			RequiresApproval:    true,
			ApprovalStatus:      domain.StatusAwaitingApproval,
			AllowsPublic:        true,
			ResolvedStatuses:    []domain.TicketStatus{domain.StatusFulfilled},
			TerminalStatuses:    []domain.TicketStatus{domain.StatusFulfilled, domain.StatusClosed},
			PriorityChangeEvent: events.EventPriorityChanged,
			NotificationEvents: []events.Name{
				events.EventCreated, events.EventStatusChanged, events.EventResolved,
				events.EventSLAPaused, events.EventSLAResumed, events.EventSLABreach,
				events.EventPriorityChanged, events.EventCABReview,
			},
		},
		{
			Category:      domain.CategoryChange,
			InitialStatus: domain.StatusDraft,
			Statuses: []domain.TicketStatus{
				domain.StatusDraft, domain.StatusSubmitted, domain.StatusAwaitingApproval,
				domain.StatusScheduled, domain.StatusImplementing, domain.StatusCompleted,
				domain.StatusFailed, domain.StatusClosed,
			},
			Transitions: map[domain.TicketStatus][]domain.TicketStatus{
				domain.StatusDraft:            {domain.StatusSubmitted},
				domain.StatusSubmitted:        {domain.StatusAwaitingApproval},
				domain.StatusAwaitingApproval: {domain.StatusScheduled, domain.StatusDraft},
				domain.StatusScheduled:        {domain.StatusImplementing},
				domain.StatusImplementing:     {domain.StatusCompleted, domain.StatusFailed},
				domain.StatusCompleted:        {domain.StatusClosed},
				domain.StatusFailed:           {domain.StatusDraft, domain.StatusClosed},
				domain.StatusClosed:           {},
			},
			RequiredFields:      []string{"subject", "description", "implementationPlan", "backoutPlan"},
			RequiresApproval:    true,
			ApprovalStatus:      domain.StatusAwaitingApproval,
			ResolvedStatuses:    []domain.TicketStatus{domain.StatusCompleted},
			TerminalStatuses:    []domain.TicketStatus{domain.StatusCompleted, domain.StatusFailed, domain.StatusClosed},
			PriorityChangeEvent: events.EventPriorityChanged,
			NotificationEvents: []events.Name{
				events.EventCreated, events.EventStatusChanged, events.EventResolved,
				events.EventSLAPaused, events.EventSLAResumed, events.EventSLABreach,
				events.EventPriorityChanged, events.EventCABReview,
			},
		},
		{
			Category:      domain.CategoryProblem,
			InitialStatus: domain.StatusLogged,
			Statuses: []domain.TicketStatus{
				domain.StatusLogged, domain.StatusInvestigating, domain.StatusKnownError,
				domain.StatusResolved, domain.StatusClosed,
			},
			Transitions: map[domain.TicketStatus][]domain.TicketStatus{
				domain.StatusLogged:        {domain.StatusInvestigating},
				domain.StatusInvestigating: {domain.StatusKnownError, domain.StatusResolved},
				domain.StatusKnownError:    {domain.StatusInvestigating, domain.StatusResolved},
				domain.StatusResolved:      {domain.StatusClosed},
				domain.StatusClosed:        {},
			},
			RequiredFields:      []string{"subject", "description"},
			ResolvedStatuses:    []domain.TicketStatus{domain.StatusResolved},
			TerminalStatuses:    []domain.TicketStatus{domain.StatusResolved, domain.StatusClosed},
			PriorityChangeEvent: events.EventSeverityChanged,
			NotificationEvents: []events.Name{
				events.EventCreated, events.EventStatusChanged, events.EventResolved,
				events.EventSLAPaused, events.EventSLAResumed, events.EventSLABreach,
				events.EventSeverityChanged,
			},
		},
	}
}
