package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"my-notes-be/internal/dto"
	"my-notes-be/internal/model"
	"my-notes-be/internal/pkg/logger"
	"my-notes-be/internal/repository"
	"my-notes-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID int64, notification model.Notification)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	repo      repository.NotificationRepository
	delivery  NotificationDelivery
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	repo repository.NotificationRepository,
	delivery NotificationDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		repo:      repo,
		delivery:  delivery,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.NoteEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "failed to unmarshal event message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads are not retriable
		return
	}

	notif := buildNoteNotification(payload)

	if err := cs.repo.CreateNotification(ctx, &notif); err != nil {
		cs.logger.Error("ConsumerService", "failed to save notification", map[string]interface{}{
			"note_id": payload.NoteId,
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	if cs.delivery != nil {
		cs.delivery.Send(payload.UserId, notif)
	}

	msg.Ack()
}

func buildNoteNotification(payload dto.NoteEventMessage) model.Notification {
	var title, text string

	switch payload.Type {
	case events.NoteCreated:
		title = "Note created"
		text = fmt.Sprintf("Note %d was created", payload.NoteId)
	case events.NoteRenamed:
		title = "Note renamed"
		text = fmt.Sprintf("Note %d was renamed to %q", payload.NoteId, payload.NoteName)
	case events.NoteTextChanged:
		title = "Note text updated"
		text = fmt.Sprintf("The text of note %d was replaced", payload.NoteId)
	case events.NoteAttached:
		title = "Note attached"
		text = fmt.Sprintf("Note %d was marked as attached", payload.NoteId)
	case events.AttachmentsAdded:
		title = "Attachments added"
		text = fmt.Sprintf("%d attachment(s) were added to note %d", len(payload.AttachmentIds), payload.NoteId)
	case events.AttachmentsRemoved:
		title = "Attachments removed"
		text = fmt.Sprintf("%d attachment(s) were removed from note %d", len(payload.AttachmentIds), payload.NoteId)
	default:
		title = "Note updated"
		text = fmt.Sprintf("Note %d was updated", payload.NoteId)
	}

	metaJSON, _ := json.Marshal(payload)

	return model.Notification{
		ID:        uuid.New(),
		UserID:    payload.UserId,
		TypeCode:  payload.Type,
		Title:     title,
		Message:   text,
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: time.Now(),
	}
}
