package service

import (
	"context"
	"fmt"

	"my-notes-be/internal/model"
	"my-notes-be/internal/pkg/logger"
	"my-notes-be/internal/repository"
	"my-notes-be/pkg/events"
	pktNats "my-notes-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationService serves the notification inbox and, when a JetStream
// subscriber is configured, records mirrored note events to the audit log.
type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		logger:     log,
	}
}

// StartAudit begins listening to the mirrored event stream. It is a no-op
// when NATS is not configured.
func (s *NotificationService) StartAudit() {
	if s.subscriber == nil {
		return
	}
	err := s.subscriber.Subscribe("events.>", "note-audit-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "failed to start audit subscriber", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.logger.Info("NotificationService", "audit subscriber started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", fmt.Sprintf("audit: %s", event.EventType()), event.Payload())
	return nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID int64, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
