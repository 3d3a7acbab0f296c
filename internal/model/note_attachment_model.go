package model

type NoteAttachment struct {
	Id           int64 `gorm:"primaryKey;autoIncrement"`
	NoteId       int64 `gorm:"not null;index"`
	AttachmentId int64 `gorm:"not null;index"`
}

func (NoteAttachment) TableName() string {
	return "note_attachments"
}
