package events

import "time"

// Note lifecycle event codes published on the event bus.
const (
	NoteCreated        = "NOTE_CREATED"
	NoteRenamed        = "NOTE_RENAMED"
	NoteTextChanged    = "NOTE_TEXT_CHANGED"
	NoteAttached       = "NOTE_ATTACHED"
	AttachmentsAdded   = "ATTACHMENTS_ADDED"
	AttachmentsRemoved = "ATTACHMENTS_REMOVED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewNoteEvent builds the standard event shape for a note mutation.
func NewNoteEvent(eventType string, noteId, userId int64, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"note_id": noteId,
		"user_id": userId,
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
