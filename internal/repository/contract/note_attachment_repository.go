package contract

import (
	"context"

	"my-notes-be/internal/entity"
	"my-notes-be/internal/repository/specification"
)

type NoteAttachmentRepository interface {
	Create(ctx context.Context, link *entity.NoteAttachment) error
	// DeleteByNoteIdAndAttachmentIds removes every link row matching the note
	// and any of the given attachment ids. Absent links are not an error.
	DeleteByNoteIdAndAttachmentIds(ctx context.Context, noteId int64, attachmentIds []int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteAttachment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteAttachment, error)
}
