package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskwise/workflow-service/internal/domain"
	"github.com/deskwise/workflow-service/internal/events"
	"github.com/deskwise/workflow-service/internal/workflow"
)

func TestLoadBuiltinDefinitions(t *testing.T) {
	registry, err := workflow.Load()
	require.NoError(t, err)

	for _, category := range domain.Categories() {
		def, ok := registry.Definition(category)
		require.True(t, ok, "missing definition for %s", category)
		require.NotEmpty(t, def.Statuses)
		require.True(t, registry.HasStatus(category, registry.InitialStatus(category)))
		require.Contains(t, def.RequiredFields, "subject")
		require.Contains(t, def.RequiredFields, "description")
	}
}

func TestLoadInitialStatuses(t *testing.T) {
	registry, err := workflow.Load()
	require.NoError(t, err)

	require.Equal(t, domain.StatusNew, registry.InitialStatus(domain.CategoryTicket))
	require.Equal(t, domain.StatusNew, registry.InitialStatus(domain.CategoryIncident))
	require.Equal(t, domain.StatusSubmitted, registry.InitialStatus(domain.CategoryServiceRequest))
	require.Equal(t, domain.StatusDraft, registry.InitialStatus(domain.CategoryChange))
	require.Equal(t, domain.StatusLogged, registry.InitialStatus(domain.CategoryProblem))
}

func TestTransitionLookups(t *testing.T) {
	registry, err := workflow.Load()
	require.NoError(t, err)

	require.True(t, registry.IsTransitionAllowed(domain.CategoryTicket, domain.StatusNew, domain.StatusOpen))
	require.True(t, registry.IsTransitionAllowed(domain.CategoryTicket, domain.StatusClosed, domain.StatusOpen))
	require.False(t, registry.IsTransitionAllowed(domain.CategoryTicket, domain.StatusNew, domain.StatusResolved))
	require.False(t, registry.IsTransitionAllowed(domain.CategoryTicket, domain.StatusOpen, domain.StatusOpen))

	// service requests do not reopen
	require.Empty(t, registry.AllowedTargets(domain.CategoryServiceRequest, domain.StatusClosed))

	// unknown source statuses have no targets
	require.False(t, registry.IsTransitionAllowed(domain.CategoryTicket, "archived", domain.StatusOpen))
	require.Empty(t, registry.AllowedTargets(domain.CategoryTicket, "archived"))
}

func TestApprovalAndTerminalSets(t *testing.T) {
	registry, err := workflow.Load()
	require.NoError(t, err)

	require.True(t, registry.RequiresApproval(domain.CategoryChange))
	require.True(t, registry.RequiresApproval(domain.CategoryServiceRequest))
	require.False(t, registry.RequiresApproval(domain.CategoryTicket))

	require.True(t, registry.IsTerminalStatus(domain.CategoryChange, domain.StatusFailed))
	require.True(t, registry.IsTerminalStatus(domain.CategoryTicket, domain.StatusResolved))
	require.False(t, registry.IsTerminalStatus(domain.CategoryTicket, domain.StatusPending))

	require.True(t, registry.IsResolvedStatus(domain.CategoryServiceRequest, domain.StatusFulfilled))
	require.False(t, registry.IsResolvedStatus(domain.CategoryServiceRequest, domain.StatusClosed))
}

func TestEventDeclarations(t *testing.T) {
	registry, err := workflow.Load()
	require.NoError(t, err)

	require.True(t, registry.EmitsEvent(domain.CategoryIncident, events.EventSeverityChanged))
	require.False(t, registry.EmitsEvent(domain.CategoryIncident, events.EventCABReview))
	require.True(t, registry.EmitsEvent(domain.CategoryChange, events.EventCABReview))
}

func minimalDefinition() workflow.Definition {
	return workflow.Definition{
		Category:      domain.CategoryTicket,
		InitialStatus: domain.StatusNew,
		Statuses:      []domain.TicketStatus{domain.StatusNew, domain.StatusClosed},
		Transitions: map[domain.TicketStatus][]domain.TicketStatus{
			domain.StatusNew: {domain.StatusClosed},
		},
		RequiredFields:      []string{"subject"},
		TerminalStatuses:    []domain.TicketStatus{domain.StatusClosed},
		PriorityChangeEvent: events.EventPriorityChanged,
		NotificationEvents: []events.Name{
			events.EventCreated, events.EventStatusChanged, events.EventSLABreach,
			events.EventSLAPaused, events.EventSLAResumed, events.EventPriorityChanged,
		},
	}
}

func TestNewRegistryRejectsSelfLoop(t *testing.T) {
	def := minimalDefinition()
	def.Transitions[domain.StatusNew] = []domain.TicketStatus{domain.StatusNew}

	_, err := workflow.NewRegistry([]workflow.Definition{def})
	var cfg *domain.ConfigurationError
	require.ErrorAs(t, err, &cfg)
}

func TestNewRegistryRejectsUndeclaredTransitionTarget(t *testing.T) {
	def := minimalDefinition()
	def.Transitions[domain.StatusNew] = []domain.TicketStatus{domain.StatusOpen}

	_, err := workflow.NewRegistry([]workflow.Definition{def})
	var cfg *domain.ConfigurationError
	require.ErrorAs(t, err, &cfg)
}

func TestNewRegistryRejectsUndeclaredInitialStatus(t *testing.T) {
	def := minimalDefinition()
	def.InitialStatus = domain.StatusOpen

	_, err := workflow.NewRegistry([]workflow.Definition{def})
	var cfg *domain.ConfigurationError
	require.ErrorAs(t, err, &cfg)
}

func TestNewRegistryRejectsMissingEventDeclaration(t *testing.T) {
	def := minimalDefinition()
	def.NotificationEvents = []events.Name{events.EventCreated}

	_, err := workflow.NewRegistry([]workflow.Definition{def})
	var cfg *domain.ConfigurationError
	require.ErrorAs(t, err, &cfg)
}

func TestNewRegistryRequiresEveryCategory(t *testing.T) {
	_, err := workflow.NewRegistry([]workflow.Definition{minimalDefinition()})
	var cfg *domain.ConfigurationError
	require.ErrorAs(t, err, &cfg)
}
