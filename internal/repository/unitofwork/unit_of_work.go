package unitofwork

import (
	"context"

	"my-notes-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	NoteRepository() contract.NoteRepository
	AttachmentRepository() contract.AttachmentRepository
	NoteAttachmentRepository() contract.NoteAttachmentRepository
}
