package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
)

const webhookTimeout = 5 * time.Second

// NotificationService handles emitting notifications for domain events.
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

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderPlaced, n.handleOrderPlaced)
	n.dispatcher.Subscribe(events.EventStoreRegistered, n.handleStoreRegistered)
	n.dispatcher.Subscribe(events.EventBoardPostCreated, n.handleBoardPostCreated)
}

func (n *NotificationService) handleOrderPlaced(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderPlaced", zap.Int64("member_id", event.Actor.MemberID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleStoreRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("StoreRegistered", zap.Int64("member_id", event.Actor.MemberID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleBoardPostCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("BoardPostCreated", zap.Int64("member_id", event.Actor.MemberID), zap.Any("payload", event.Payload))
	return nil
}

// sendWebhook posts the event as JSON to the configured URL, if any.
func (n *NotificationService) sendWebhook(_ context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}

	agent := fiber.Post(url).JSON(event).Timeout(webhookTimeout)
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("webhook %s: %w", event.Type, errs[0])
	}
	if status >= fiber.StatusBadRequest {
		return fmt.Errorf("webhook %s: unexpected status %d", event.Type, status)
	}
	n.logger.Debug("webhook delivered",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
		zap.Int("status", status))
	return nil
}
