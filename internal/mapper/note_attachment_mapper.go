package mapper

import (
	"my-notes-be/internal/entity"
	"my-notes-be/internal/model"
)

type NoteAttachmentMapper struct{}

func NewNoteAttachmentMapper() *NoteAttachmentMapper {
	return &NoteAttachmentMapper{}
}

func (m *NoteAttachmentMapper) ToEntity(l *model.NoteAttachment) *entity.NoteAttachment {
	if l == nil {
		return nil
	}
	return &entity.NoteAttachment{
		Id:           l.Id,
		NoteId:       l.NoteId,
		AttachmentId: l.AttachmentId,
	}
}

func (m *NoteAttachmentMapper) ToModel(l *entity.NoteAttachment) *model.NoteAttachment {
	if l == nil {
		return nil
	}
	return &model.NoteAttachment{
		Id:           l.Id,
		NoteId:       l.NoteId,
		AttachmentId: l.AttachmentId,
	}
}

func (m *NoteAttachmentMapper) ToEntities(links []*model.NoteAttachment) []*entity.NoteAttachment {
	entities := make([]*entity.NoteAttachment, len(links))
	for i, l := range links {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
