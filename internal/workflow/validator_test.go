package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskwise/workflow-service/internal/domain"
	"github.com/deskwise/workflow-service/internal/workflow"
)

func newValidator(t *testing.T) *workflow.Validator {
	t.Helper()
	registry, err := workflow.Load()
	require.NoError(t, err)
	return workflow.NewValidator(registry)
}

func TestValidateCreateReturnsInitialStatus(t *testing.T) {
	v := newValidator(t)

	initial, err := v.ValidateCreate(domain.CategoryTicket, map[string]string{
		"subject":     "printer offline",
		"description": "third floor printer is unreachable",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusNew, initial)
}

func TestValidateCreateCollectsAllMissingFields(t *testing.T) {
	v := newValidator(t)

	_, err := v.ValidateCreate(domain.CategoryIncident, map[string]string{
		"subject": "database down",
	})
	var missing *domain.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, domain.CategoryIncident, missing.Category)
	require.ElementsMatch(t, []string{"description", "impact", "urgency", "affectedService"}, missing.Fields)
}

func TestValidateCreateTreatsBlankAsMissing(t *testing.T) {
	v := newValidator(t)

	_, err := v.ValidateCreate(domain.CategoryChange, map[string]string{
		"subject":            "rotate TLS certs",
		"description":        "replace expiring certificates",
		"implementationPlan": "   ",
		"backoutPlan":        "",
	})
	var missing *domain.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	require.ElementsMatch(t, []string{"implementationPlan", "backoutPlan"}, missing.Fields)
}

func TestValidateCreateUnknownCategory(t *testing.T) {
	v := newValidator(t)

	_, err := v.ValidateCreate("task", map[string]string{"subject": "x", "description": "y"})
	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "category", invalid.Field)
}

func TestValidateTransitionAllowed(t *testing.T) {
	v := newValidator(t)

	require.NoError(t, v.ValidateTransition(domain.CategoryTicket, domain.StatusNew, domain.StatusOpen))
	require.NoError(t, v.ValidateTransition(domain.CategoryIncident, domain.StatusResolved, domain.StatusInvestigating))
}

func TestValidateTransitionIllegalCarriesAllowedSet(t *testing.T) {
	v := newValidator(t)

	err := v.ValidateTransition(domain.CategoryTicket, domain.StatusClosed, domain.StatusResolved)
	var illegal *domain.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	require.Equal(t, domain.StatusClosed, illegal.Current)
	require.Equal(t, domain.StatusResolved, illegal.Requested)
	require.ElementsMatch(t, []domain.TicketStatus{domain.StatusOpen}, illegal.Allowed)
}

func TestValidateTransitionRejectsNoOp(t *testing.T) {
	v := newValidator(t)

	err := v.ValidateTransition(domain.CategoryTicket, domain.StatusOpen, domain.StatusOpen)
	var illegal *domain.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
}

func TestValidateTransitionRejectsUnknownStatuses(t *testing.T) {
	v := newValidator(t)

	var invalid *domain.InvalidInputError

	err := v.ValidateTransition(domain.CategoryTicket, "archived", domain.StatusOpen)
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "current_status", invalid.Field)

	err = v.ValidateTransition(domain.CategoryTicket, domain.StatusOpen, "archived")
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "requested_status", invalid.Field)
}

func TestValidateTransitionServiceRequestClosedIsDeadEnd(t *testing.T) {
	v := newValidator(t)

	err := v.ValidateTransition(domain.CategoryServiceRequest, domain.StatusClosed, domain.StatusInProgress)
	var illegal *domain.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	require.Empty(t, illegal.Allowed)
}
