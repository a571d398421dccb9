package workflow

import "github.com/deskwise/workflow-service/internal/domain"

type matrixKey struct {
	impact  domain.RatingLevel
	urgency domain.RatingLevel
}

// priorityMatrix maps impact x urgency to priority. Every cell of the 3x3
// domain must be present; impact dominates urgency at the boundary.
var priorityMatrix = map[matrixKey]domain.TicketPriority{
	{domain.RatingHigh, domain.RatingHigh}:     domain.PriorityCritical,
	{domain.RatingHigh, domain.RatingMedium}:   domain.PriorityHigh,
	{domain.RatingHigh, domain.RatingLow}:      domain.PriorityHigh,
	{domain.RatingMedium, domain.RatingHigh}:   domain.PriorityHigh,
	{domain.RatingMedium, domain.RatingMedium}: domain.PriorityMedium,
	{domain.RatingMedium, domain.RatingLow}:    domain.PriorityMedium,
	{domain.RatingLow, domain.RatingHigh}:      domain.PriorityMedium,
	{domain.RatingLow, domain.RatingMedium}:    domain.PriorityLow,
	{domain.RatingLow, domain.RatingLow}:       domain.PriorityLow,
}

// CalculatePriority maps (impact, urgency) to a priority level. Inputs
// outside the three-valued domain are rejected, never clamped.
func CalculatePriority(impact, urgency domain.RatingLevel) (domain.TicketPriority, error) {
	if !domain.ValidRating(impact) {
		return "", &domain.InvalidInputError{Field: "impact", Value: string(impact)}
	}
	if !domain.ValidRating(urgency) {
		return "", &domain.InvalidInputError{Field: "urgency", Value: string(urgency)}
	}
	priority, ok := priorityMatrix[matrixKey{impact, urgency}]
	if !ok {
		// unreachable for validated inputs once ValidatePriorityMatrix passed
		return "", &domain.ConfigurationError{
			Component: "priority-matrix",
			Detail:    "undefined cell " + string(impact) + "x" + string(urgency),
		}
	}
	return priority, nil
}

// ValidatePriorityMatrix verifies every cell of the 3x3 domain is defined
// with a valid priority. Called once at startup.
func ValidatePriorityMatrix() error {
	levels := []domain.RatingLevel{domain.RatingLow, domain.RatingMedium, domain.RatingHigh}
	for _, impact := range levels {
		for _, urgency := range levels {
			priority, ok := priorityMatrix[matrixKey{impact, urgency}]
			if !ok {
				return &domain.ConfigurationError{
					Component: "priority-matrix",
					Detail:    "undefined cell " + string(impact) + "x" + string(urgency),
				}
			}
			if !domain.ValidPriority(priority) {
				return &domain.ConfigurationError{
					Component: "priority-matrix",
					Detail:    "cell " + string(impact) + "x" + string(urgency) + " maps to unknown priority " + string(priority),
				}
			}
		}
	}
	return nil
}
