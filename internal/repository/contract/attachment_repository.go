package contract

import (
	"context"

	"my-notes-be/internal/entity"
	"my-notes-be/internal/repository/specification"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *entity.Attachment) error
	Delete(ctx context.Context, id int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Attachment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
