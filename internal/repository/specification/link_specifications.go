package specification

import "gorm.io/gorm"

type ByNoteID struct {
	NoteID int64
}

func (s ByNoteID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id = ?", s.NoteID)
}

type ByAttachmentID struct {
	AttachmentID int64
}

func (s ByAttachmentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("attachment_id = ?", s.AttachmentID)
}

type ByAttachmentIDs struct {
	AttachmentIDs []int64
}

func (s ByAttachmentIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("attachment_id IN ?", s.AttachmentIDs)
}
