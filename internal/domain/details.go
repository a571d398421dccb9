package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// CategoryDetails is the per-category payload attached to a ticket. Each
// category has its own concrete type so incident-only fields cannot be read
// off a change request.
type CategoryDetails interface {
	// Category identifies which variant this is.
	Category() TicketCategory
	// Fields exposes the variant's values by field name for required-field
	// validation at creation time.
	Fields() map[string]string
}

// TicketDetails carries fields for generic support tickets.
type TicketDetails struct {
	Queue  string `json:"queue,omitempty"`
	Source string `json:"source,omitempty"`
}

func (d TicketDetails) Category() TicketCategory { return CategoryTicket }

func (d TicketDetails) Fields() map[string]string {
	return map[string]string{
		"queue":  d.Queue,
		"source": d.Source,
	}
}

// IncidentDetails carries incident-specific fields.
type IncidentDetails struct {
	AffectedService string `json:"affected_service,omitempty"`
	IsMajor         bool   `json:"is_major,omitempty"`
}

func (d IncidentDetails) Category() TicketCategory { return CategoryIncident }

func (d IncidentDetails) Fields() map[string]string {
	return map[string]string{
		"affectedService": d.AffectedService,
		"isMajor":         strconv.FormatBool(d.IsMajor),
	}
}

// ServiceRequestDetails carries service-request-specific fields.
type ServiceRequestDetails struct {
	RequestedItem string `json:"requested_item,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
}

func (d ServiceRequestDetails) Category() TicketCategory { return CategoryServiceRequest }

func (d ServiceRequestDetails) Fields() map[string]string {
	quantity := ""
	if d.Quantity > 0 {
		quantity = strconv.Itoa(d.Quantity)
	}
	return map[string]string{
		"requestedItem": d.RequestedItem,
		"quantity":      quantity,
	}
}

// ChangeDetails carries change-request-specific fields.
type ChangeDetails struct {
	ChangeType         string     `json:"change_type,omitempty"`
	ImplementationPlan string     `json:"implementation_plan,omitempty"`
	BackoutPlan        string     `json:"backout_plan,omitempty"`
	PlannedStart       *time.Time `json:"planned_start,omitempty"`
	PlannedEnd         *time.Time `json:"planned_end,omitempty"`
}

func (d ChangeDetails) Category() TicketCategory { return CategoryChange }

func (d ChangeDetails) Fields() map[string]string {
	return map[string]string{
		"changeType":         d.ChangeType,
		"implementationPlan": d.ImplementationPlan,
		"backoutPlan":        d.BackoutPlan,
	}
}

// ProblemDetails carries problem-specific fields.
type ProblemDetails struct {
	RootCause       string `json:"root_cause,omitempty"`
	Workaround      string `json:"workaround,omitempty"`
	KnownErrorRefID string `json:"known_error_ref_id,omitempty"`
}

func (d ProblemDetails) Category() TicketCategory { return CategoryProblem }

func (d ProblemDetails) Fields() map[string]string {
	return map[string]string{
		"rootCause":  d.RootCause,
		"workaround": d.Workaround,
	}
}

// EmptyDetails returns the zero-value variant for the category.
func EmptyDetails(category TicketCategory) (CategoryDetails, error) {
	switch category {
	case CategoryTicket:
		return TicketDetails{}, nil
	case CategoryIncident:
		return IncidentDetails{}, nil
	case CategoryServiceRequest:
		return ServiceRequestDetails{}, nil
	case CategoryChange:
		return ChangeDetails{}, nil
	case CategoryProblem:
		return ProblemDetails{}, nil
	}
	return nil, &InvalidInputError{Field: "category", Value: string(category)}
}

// MarshalDetails serializes a details variant for storage.
func MarshalDetails(d CategoryDetails) ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// UnmarshalDetails deserializes the variant matching the category.
func UnmarshalDetails(category TicketCategory, data []byte) (CategoryDetails, error) {
	if len(data) == 0 {
		return EmptyDetails(category)
	}
	switch category {
	case CategoryTicket:
		var d TicketDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", category, err)
		}
		return d, nil
	case CategoryIncident:
		var d IncidentDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", category, err)
		}
		return d, nil
	case CategoryServiceRequest:
		var d ServiceRequestDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", category, err)
		}
		return d, nil
	case CategoryChange:
		var d ChangeDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", category, err)
		}
		return d, nil
	case CategoryProblem:
		var d ProblemDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode %s details: %w", category, err)
		}
		return d, nil
	}
	return nil, &InvalidInputError{Field: "category", Value: string(category)}
}
