package dto

// NoteEventMessage is the payload published on the in-process bus for every
// note mutation and consumed by the notification pipeline.
type NoteEventMessage struct {
	Type          string  `json:"type"`
	NoteId        int64   `json:"note_id"`
	UserId        int64   `json:"user_id"`
	NoteName      string  `json:"note_name,omitempty"`
	AttachmentIds []int64 `json:"attachment_ids,omitempty"`
}
