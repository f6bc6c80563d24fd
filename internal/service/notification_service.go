package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/afriroots/afriroots-api/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  *events.RedisPublisher
	logger     *zap.Logger
}

// NewNotificationService creates the service. publisher may be nil.
func NewNotificationService(dispatcher events.Dispatcher, publisher *events.RedisPublisher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountRegistered, n.handleAccountRegistered)
	n.dispatcher.Subscribe(events.EventContentPublished, n.handleContentPublished)
	if n.publisher != nil {
		n.dispatcher.Subscribe(events.EventAccountRegistered, n.publisher.Handle)
		n.dispatcher.Subscribe(events.EventContentPublished, n.publisher.Handle)
	}
}

func (n *NotificationService) handleAccountRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("AccountRegistered", zap.String("account_id", event.AccountID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleContentPublished(_ context.Context, event events.Event) error {
	n.logger.Info("ContentPublished", zap.String("account_id", event.AccountID), zap.Any("payload", event.Payload))
	return nil
}
