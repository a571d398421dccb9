package sla_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskwise/workflow-service/internal/domain"
	"github.com/deskwise/workflow-service/internal/sla"
)

func TestDefaultPolicyTableValidates(t *testing.T) {
	table := sla.DefaultPolicyTable()
	require.NoError(t, table.Validate())

	critical, err := table.For(domain.PriorityCritical)
	require.NoError(t, err)
	require.Equal(t, 15, critical.ResponseMinutes)
	require.Equal(t, 240, critical.ResolutionMinutes)

	low, err := table.For(domain.PriorityLow)
	require.NoError(t, err)
	require.Equal(t, 480, low.ResponseMinutes)
	require.Equal(t, 4320, low.ResolutionMinutes)
}

func TestPolicyTableValidateRejectsMissingPriority(t *testing.T) {
	table := sla.DefaultPolicyTable()
	delete(table, domain.PriorityHigh)

	var cfg *domain.ConfigurationError
	require.ErrorAs(t, table.Validate(), &cfg)
	require.Equal(t, "sla-policy", cfg.Component)
}

func TestPolicyTableValidateRejectsNonPositiveBudget(t *testing.T) {
	table := sla.DefaultPolicyTable()
	table[domain.PriorityMedium] = sla.Policy{ResponseMinutes: 0, ResolutionMinutes: 1440}

	var cfg *domain.ConfigurationError
	require.ErrorAs(t, table.Validate(), &cfg)
}

func TestPolicyTableForRejectsUnknownPriority(t *testing.T) {
	table := sla.DefaultPolicyTable()

	_, err := table.For("urgent")
	var invalid *domain.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "priority", invalid.Field)
}
