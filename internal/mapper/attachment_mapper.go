package mapper

import (
	"my-notes-be/internal/entity"
	"my-notes-be/internal/model"
	"my-notes-be/pkg/fileext"
)

type AttachmentMapper struct{}

func NewAttachmentMapper() *AttachmentMapper {
	return &AttachmentMapper{}
}

func (m *AttachmentMapper) ToEntity(a *model.Attachment) *entity.Attachment {
	if a == nil {
		return nil
	}
	return &entity.Attachment{
		Id:        a.Id,
		File:      a.File,
		Extension: fileext.Extension(a.Extension),
		CreatedAt: a.CreatedAt,
	}
}

func (m *AttachmentMapper) ToModel(a *entity.Attachment) *model.Attachment {
	if a == nil {
		return nil
	}
	return &model.Attachment{
		Id:        a.Id,
		File:      a.File,
		Extension: string(a.Extension),
		CreatedAt: a.CreatedAt,
	}
}
