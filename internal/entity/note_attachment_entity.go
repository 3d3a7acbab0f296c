package entity

// NoteAttachment links one note to one attachment.
type NoteAttachment struct {
	Id           int64
	NoteId       int64
	AttachmentId int64
}
