package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/deskwise/workflow-service/internal/config"
	"github.com/deskwise/workflow-service/internal/events"
)

// NotificationService forwards workflow events to the delivery channels.
// Delivery, retry and failure handling live behind these stubs; the engine
// only ever publishes and returns.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to the event names the notification channels
// care about.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCreated, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventStatusChanged, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventResolved, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventCABReview, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventPriorityChanged, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventSeverityChanged, n.handleLifecycleEvent)
	n.dispatcher.Subscribe(events.EventSLABreach, n.handleBreachEvent)
}

func (n *NotificationService) handleLifecycleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("ticket_id", event.TicketID),
		zap.String("category", string(event.Category)),
		zap.String("event", string(event.EventName)))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBreachEvent(ctx context.Context, event events.Event) error {
	n.logger.Warn("sla breach",
		zap.String("ticket_id", event.TicketID),
		zap.String("category", string(event.Category)),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("event", string(event.EventName)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event", string(event.EventName)))
}
