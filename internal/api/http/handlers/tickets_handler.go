package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskwise/workflow-service/internal/api/dto"
	"github.com/deskwise/workflow-service/internal/auth"
	"github.com/deskwise/workflow-service/internal/domain"
	"github.com/deskwise/workflow-service/internal/engine"
	"github.com/deskwise/workflow-service/internal/repository"
	apperrors "github.com/deskwise/workflow-service/pkg/util"
)

// TicketsHandler exposes the workflow engine operations over HTTP.
type TicketsHandler struct {
	engine  *engine.Engine
	history repository.TicketHistoryRepository
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(eng *engine.Engine, history repository.TicketHistoryRepository) *TicketsHandler {
	return &TicketsHandler{engine: eng, history: history}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OrgID == "" || req.Category == "" {
		return apperrors.NewValidationError("org_id and category required", nil)
	}

	var details domain.CategoryDetails
	if len(req.Details) > 0 {
		decoded, err := domain.UnmarshalDetails(req.Category, req.Details)
		if err != nil {
			return apperrors.NewValidationError("invalid details payload", nil)
		}
		details = decoded
	}

	ticket, err := h.engine.Create(c.UserContext(), engine.CreateInput{
		OrgID:       req.OrgID,
		Category:    req.Category,
		Subject:     req.Subject,
		Description: req.Description,
		Impact:      req.Impact,
		Urgency:     req.Urgency,
		Priority:    req.Priority,
		Details:     details,
		Actor:       principal.SubjectID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.engine.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Transition POST /tickets/:id/transition.
func (h *TicketsHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	ticket, err := h.engine.Transition(c.UserContext(), c.Params("id"), req.Status, principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Pause POST /tickets/:id/pause.
func (h *TicketsHandler) Pause(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.engine.Pause(c.UserContext(), c.Params("id"), principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Resume POST /tickets/:id/resume.
func (h *TicketsHandler) Resume(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.engine.Resume(c.UserContext(), c.Params("id"), principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ChangePriority POST /tickets/:id/priority.
func (h *TicketsHandler) ChangePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.engine.ChangePriority(c.UserContext(), c.Params("id"), req.Priority, principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// History GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	if h.history == nil {
		return c.JSON(fiber.Map{"data": []dto.HistoryResponse{}})
	}
	entries, err := h.history.ListByTicket(c.UserContext(), c.Params("id"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.HistoryResponse{
			ID:         entry.ID,
			ChangeType: entry.ChangeType,
			Actor:      entry.Actor,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		OrgID:       ticket.OrgID,
		Number:      ticket.Number,
		Category:    ticket.Category,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Impact:      ticket.Impact,
		Urgency:     ticket.Urgency,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Details:     ticket.Details,
		SLA: dto.SLAResponse{
			StartedAt:               ticket.SLA.StartedAt,
			ResponseBudgetMinutes:   ticket.SLA.ResponseBudgetMinutes,
			ResolutionBudgetMinutes: ticket.SLA.ResolutionBudgetMinutes,
			ResponseDeadline:        ticket.SLA.ResponseDeadline,
			ResolutionDeadline:      ticket.SLA.ResolutionDeadline,
			PausedAt:                ticket.SLA.PausedAt,
			TotalPausedMinutes:      int64(ticket.SLA.TotalPausedDuration.Minutes()),
			ResponseBreached:        ticket.SLA.ResponseBreached,
			ResolutionBreached:      ticket.SLA.ResolutionBreached,
		},
		Version:   ticket.Version,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}
