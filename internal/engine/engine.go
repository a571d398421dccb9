package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deskwise/workflow-service/internal/domain"
	"github.com/deskwise/workflow-service/internal/events"
	"github.com/deskwise/workflow-service/internal/observability"
	"github.com/deskwise/workflow-service/internal/sequence"
	"github.com/deskwise/workflow-service/internal/sla"
	"github.com/deskwise/workflow-service/internal/workflow"
)

// Clock provides the current time. Injected so SLA arithmetic is testable
// against a controlled clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// TicketStore is the persistence provider contract. CompareAndSwap persists
// the ticket conditioned on the stored version still matching
// expectedVersion, returning ConcurrentModificationError otherwise.
type TicketStore interface {
	Load(ctx context.Context, id string) (*domain.Ticket, error)
	Insert(ctx context.Context, ticket *domain.Ticket) error
	CompareAndSwap(ctx context.Context, expectedVersion int64, ticket *domain.Ticket) error
}

// HistoryStore records immutable audit entries. Optional.
type HistoryStore interface {
	Append(ctx context.Context, entry *domain.TicketHistory) error
}

// Engine is the workflow orchestrator: it validates, computes the new
// (status, SLA, version) triple, attempts an optimistic write, and emits
// exactly one named event on success. It holds no locks and runs no
// background timers; breach state is a pure function of stored state and
// wall-clock time.
type Engine struct {
	registry   *workflow.Registry
	validator  *workflow.Validator
	policies   sla.PolicyTable
	sequencer  *sequence.Sequencer
	store      TicketStore
	history    HistoryStore
	dispatcher events.Dispatcher
	clock      Clock
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// Dependencies bundles collaborators for the engine.
type Dependencies struct {
	Registry   *workflow.Registry
	Policies   sla.PolicyTable
	Sequencer  *sequence.Sequencer
	Store      TicketStore
	History    HistoryStore
	Dispatcher events.Dispatcher
	Clock      Clock
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// New constructs the engine. Registry, policies, sequencer and store are
// mandatory; clock defaults to the system clock.
func New(deps Dependencies) (*Engine, error) {
	if deps.Registry == nil {
		return nil, errors.New("engine: registry required")
	}
	if deps.Store == nil {
		return nil, errors.New("engine: ticket store required")
	}
	if deps.Sequencer == nil {
		return nil, errors.New("engine: sequencer required")
	}
	if err := deps.Policies.Validate(); err != nil {
		return nil, err
	}
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		registry:   deps.Registry,
		validator:  workflow.NewValidator(deps.Registry),
		policies:   deps.Policies,
		sequencer:  deps.Sequencer,
		store:      deps.Store,
		history:    deps.History,
		dispatcher: deps.Dispatcher,
		clock:      clock,
		metrics:    deps.Metrics,
		logger:     logger,
	}, nil
}

// CreateInput describes a ticket creation request.
type CreateInput struct {
	OrgID       string
	Category    domain.TicketCategory
	Subject     string
	Description string
	Impact      *domain.RatingLevel
	Urgency     *domain.RatingLevel
	// Priority is used only when impact and urgency are absent; it defaults
	// to medium.
	Priority domain.TicketPriority
	Details  domain.CategoryDetails
	Actor    string
}

// Create validates required fields, derives priority, computes the SLA
// window, allocates a ticket number and persists the new ticket.
func (e *Engine) Create(ctx context.Context, input CreateInput) (ticket *domain.Ticket, err error) {
	defer e.record("create", &err)

	details := input.Details
	if details == nil {
		if details, err = domain.EmptyDetails(input.Category); err != nil {
			return nil, err
		}
	} else if details.Category() != input.Category {
		return nil, &domain.InvalidInputError{Field: "details", Value: string(details.Category())}
	}

	fields := map[string]string{
		"subject":     input.Subject,
		"description": input.Description,
	}
	if input.Impact != nil {
		fields["impact"] = string(*input.Impact)
	}
	if input.Urgency != nil {
		fields["urgency"] = string(*input.Urgency)
	}
	for name, value := range details.Fields() {
		fields[name] = value
	}

	initial, err := e.validator.ValidateCreate(input.Category, fields)
	if err != nil {
		return nil, err
	}

	priority, err := e.derivePriority(input)
	if err != nil {
		return nil, err
	}
	policy, err := e.policies.For(priority)
	if err != nil {
		return nil, err
	}

	number, err := e.sequencer.Next(ctx, input.OrgID, input.Category)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	ticket = &domain.Ticket{
		ID:          uuid.NewString(),
		OrgID:       input.OrgID,
		Number:      number,
		Category:    input.Category,
		Status:      initial,
		Priority:    priority,
		Impact:      input.Impact,
		Urgency:     input.Urgency,
		Subject:     input.Subject,
		Description: input.Description,
		Details:     details,
		SLA:         sla.Initialize(policy, now),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = e.store.Insert(ctx, ticket); err != nil {
		return nil, err
	}

	e.emit(ctx, ticket, events.EventCreated, events.TicketCreatedPayload{
		OrgID:    ticket.OrgID,
		Number:   ticket.Number,
		Status:   ticket.Status,
		Priority: ticket.Priority,
		Subject:  ticket.Subject,
	})
	return ticket, nil
}

func (e *Engine) derivePriority(input CreateInput) (domain.TicketPriority, error) {
	switch {
	case input.Impact != nil && input.Urgency != nil:
		return workflow.CalculatePriority(*input.Impact, *input.Urgency)
	case input.Impact != nil:
		return "", &domain.InvalidInputError{Field: "urgency", Value: ""}
	case input.Urgency != nil:
		return "", &domain.InvalidInputError{Field: "impact", Value: ""}
	case input.Priority != "":
		if !domain.ValidPriority(input.Priority) {
			return "", &domain.InvalidInputError{Field: "priority", Value: string(input.Priority)}
		}
		return input.Priority, nil
	default:
		return domain.PriorityMedium, nil
	}
}

// Transition applies a status change. The write is gated on the version
// read here; a concurrent writer causes ConcurrentModificationError and the
// caller must re-read and retry. Leaving a terminal status for an active
// one reopens the ticket and establishes a fresh SLA window.
func (e *Engine) Transition(ctx context.Context, ticketID string, requested domain.TicketStatus, actor string) (ticket *domain.Ticket, err error) {
	defer e.record("transition", &err)

	ticket, err = e.store.Load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err = e.validator.ValidateTransition(ticket.Category, ticket.Status, requested); err != nil {
		return nil, err
	}

	now := e.clock.Now()
	oldStatus := ticket.Status
	reopened := e.registry.IsTerminalStatus(ticket.Category, oldStatus) &&
		!e.registry.IsTerminalStatus(ticket.Category, requested)
	if reopened {
		policy, perr := e.policies.For(ticket.Priority)
		if perr != nil {
			return nil, perr
		}
		ticket.SLA = sla.Reopen(policy, now)
	}
	ticket.Status = requested
	ticket.UpdatedAt = now

	expected := ticket.Version
	ticket.Version++
	if err = e.store.CompareAndSwap(ctx, expected, ticket); err != nil {
		return nil, err
	}

	e.appendHistory(ctx, ticket.ID, actor, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": requested, "reopened": reopened})

	name := events.EventStatusChanged
	def, _ := e.registry.Definition(ticket.Category)
	switch {
	case e.registry.IsResolvedStatus(ticket.Category, requested):
		name = events.EventResolved
	case def.RequiresApproval && requested == def.ApprovalStatus:
		name = events.EventCABReview
	}
	e.emit(ctx, ticket, name, events.StatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: requested,
		Reopened:  reopened,
	})
	return ticket, nil
}

// Pause stops the ticket's SLA clock. Pausing an already-paused ticket is
// idempotent: nothing is written and no event is emitted.
func (e *Engine) Pause(ctx context.Context, ticketID, actor string) (ticket *domain.Ticket, err error) {
	defer e.record("pause", &err)

	ticket, err = e.store.Load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.SLA.Paused() {
		return ticket, nil
	}

	now := e.clock.Now()
	ticket.SLA = sla.Pause(ticket.SLA, now)
	ticket.UpdatedAt = now

	expected := ticket.Version
	ticket.Version++
	if err = e.store.CompareAndSwap(ctx, expected, ticket); err != nil {
		return nil, err
	}

	e.appendHistory(ctx, ticket.ID, actor, domain.ChangeTypeSLA,
		map[string]any{"paused": false},
		map[string]any{"paused": true})

	e.emit(ctx, ticket, events.EventSLAPaused, events.SLAPausePayload{
		PausedAt:           ticket.SLA.PausedAt,
		ResponseDeadline:   ticket.SLA.ResponseDeadline,
		ResolutionDeadline: ticket.SLA.ResolutionDeadline,
	})
	return ticket, nil
}

// Resume restarts a paused SLA clock, shifting both deadlines forward by
// the paused interval. Resuming a running ticket is a no-op.
func (e *Engine) Resume(ctx context.Context, ticketID, actor string) (ticket *domain.Ticket, err error) {
	defer e.record("resume", &err)

	ticket, err = e.store.Load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.SLA.Paused() {
		return ticket, nil
	}

	now := e.clock.Now()
	pausedFor := now.Sub(*ticket.SLA.PausedAt)
	ticket.SLA = sla.Resume(ticket.SLA, now)
	ticket.UpdatedAt = now

	expected := ticket.Version
	ticket.Version++
	if err = e.store.CompareAndSwap(ctx, expected, ticket); err != nil {
		return nil, err
	}

	e.appendHistory(ctx, ticket.ID, actor, domain.ChangeTypeSLA,
		map[string]any{"paused": true},
		map[string]any{"paused": false, "paused_for_seconds": int64(pausedFor / time.Second)})

	e.emit(ctx, ticket, events.EventSLAResumed, events.SLAPausePayload{
		PausedFor:          pausedFor,
		ResponseDeadline:   ticket.SLA.ResponseDeadline,
		ResolutionDeadline: ticket.SLA.ResolutionDeadline,
	})
	return ticket, nil
}

// ChangePriority swaps in the new priority's budgets, preserving time
// already spent against the old ones. Setting the current priority again is
// a no-op.
func (e *Engine) ChangePriority(ctx context.Context, ticketID string, priority domain.TicketPriority, actor string) (ticket *domain.Ticket, err error) {
	defer e.record("change_priority", &err)

	policy, err := e.policies.For(priority)
	if err != nil {
		return nil, err
	}
	ticket, err = e.store.Load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Priority == priority {
		return ticket, nil
	}

	now := e.clock.Now()
	oldPriority := ticket.Priority
	ticket.Priority = priority
	ticket.SLA = sla.RecomputeOnPriorityChange(ticket.SLA, policy)
	ticket.UpdatedAt = now

	expected := ticket.Version
	ticket.Version++
	if err = e.store.CompareAndSwap(ctx, expected, ticket); err != nil {
		return nil, err
	}

	e.appendHistory(ctx, ticket.ID, actor, domain.ChangeTypePriority,
		map[string]any{"priority": oldPriority},
		map[string]any{"priority": priority})

	def, _ := e.registry.Definition(ticket.Category)
	e.emit(ctx, ticket, def.PriorityChangeEvent, events.PriorityChangedPayload{
		OldPriority: oldPriority,
		NewPriority: priority,
	})
	return ticket, nil
}

// ReevaluateSLA marks any deadline now past as breached and emits a breach
// event. Breach flags are monotonic; re-evaluating a ticket whose flags are
// current writes nothing. A paused ticket cannot breach.
func (e *Engine) ReevaluateSLA(ctx context.Context, ticketID string) (ticket *domain.Ticket, err error) {
	defer e.record("reevaluate_sla", &err)

	ticket, err = e.store.Load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.SLA.Paused() {
		return ticket, nil
	}

	now := e.clock.Now()
	state, newResponse, newResolution := sla.MarkBreached(ticket.SLA, now)
	if !newResponse && !newResolution {
		return ticket, nil
	}
	ticket.SLA = state
	ticket.UpdatedAt = now

	expected := ticket.Version
	ticket.Version++
	if err = e.store.CompareAndSwap(ctx, expected, ticket); err != nil {
		return nil, err
	}

	if e.metrics != nil {
		if newResponse {
			e.metrics.RecordBreach(ticket.Category, "response")
		}
		if newResolution {
			e.metrics.RecordBreach(ticket.Category, "resolution")
		}
	}
	e.emit(ctx, ticket, events.EventSLABreach, events.SLABreachPayload{
		ResponseBreached:   ticket.SLA.ResponseBreached,
		ResolutionBreached: ticket.SLA.ResolutionBreached,
		ResponseDeadline:   ticket.SLA.ResponseDeadline,
		ResolutionDeadline: ticket.SLA.ResolutionDeadline,
	})
	return ticket, nil
}

// Get loads a ticket without mutating it.
func (e *Engine) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return e.store.Load(ctx, ticketID)
}

func (e *Engine) emit(ctx context.Context, ticket *domain.Ticket, name events.Name, payload any) {
	if e.dispatcher == nil {
		return
	}
	if !e.registry.EmitsEvent(ticket.Category, name) {
		e.logger.Warn("event not declared for category",
			zap.String("category", string(ticket.Category)),
			zap.String("event", string(name)))
		return
	}
	_ = e.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Category:   ticket.Category,
		TicketID:   ticket.ID,
		EventName:  name,
		OccurredAt: e.clock.Now(),
		Payload:    payload,
	})
}

func (e *Engine) appendHistory(ctx context.Context, ticketID, actor string, changeType domain.TicketChangeType, oldValue, newValue map[string]any) {
	if e.history == nil {
		return
	}
	entry := &domain.TicketHistory{
		TicketID:   ticketID,
		Actor:      actor,
		ChangeType: changeType,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	if err := e.history.Append(ctx, entry); err != nil {
		e.logger.Warn("append ticket history", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}

func (e *Engine) record(operation string, err *error) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordOperation(operation, outcomeLabel(*err))
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	var (
		invalid  *domain.InvalidInputError
		missing  *domain.MissingFieldsError
		illegal  *domain.IllegalTransitionError
		conflict *domain.ConcurrentModificationError
	)
	switch {
	case errors.As(err, &invalid):
		return "invalid_input"
	case errors.As(err, &missing):
		return "missing_fields"
	case errors.As(err, &illegal):
		return "illegal_transition"
	case errors.As(err, &conflict):
		return "conflict"
	}
	return "error"
}
