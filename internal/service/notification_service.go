package service

import (
	"context"
	"fmt"

	"video-annotate/internal/pkg/logger"
	"video-annotate/pkg/events"
)

// RefreshDelivery tells connected clients of a user to pull their pending annotations.
// Implemented by the WebSocket hub.
type RefreshDelivery interface {
	Refresh(userName string)
}

type NotificationService struct {
	subscriber events.Subscriber
	delivery   RefreshDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub events.Subscriber, delivery RefreshDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() error {
	subject := events.Subject(events.AnnotationShared)
	if err := s.subscriber.Subscribe(subject, "annotate-push-worker", s.handleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NotificationService", fmt.Sprintf("Notification service started, listening to %s", subject), nil)
	return nil
}

func (s *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	if event.EventType() != events.AnnotationShared {
		s.logger.Debug("NotificationService", "Ignoring event", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	target, _ := event.Payload()["target_user"].(string)
	if target == "" {
		s.logger.Warn("NotificationService", "Share event without target_user", map[string]interface{}{"payload": event.Payload()})
		return nil
	}

	s.delivery.Refresh(target)
	s.logger.Debug("NotificationService", "Refresh delivered", map[string]interface{}{"target_user": target})
	return nil
}
