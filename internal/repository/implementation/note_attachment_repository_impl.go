package implementation

import (
	"context"
	"errors"

	"my-notes-be/internal/entity"
	"my-notes-be/internal/mapper"
	"my-notes-be/internal/model"
	"my-notes-be/internal/repository/contract"
	"my-notes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NoteAttachmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteAttachmentMapper
}

func NewNoteAttachmentRepository(db *gorm.DB) contract.NoteAttachmentRepository {
	return &NoteAttachmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteAttachmentMapper(),
	}
}

func (r *NoteAttachmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteAttachmentRepositoryImpl) Create(ctx context.Context, link *entity.NoteAttachment) error {
	m := r.mapper.ToModel(link)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*link = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteAttachmentRepositoryImpl) DeleteByNoteIdAndAttachmentIds(ctx context.Context, noteId int64, attachmentIds []int64) error {
	if len(attachmentIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("note_id = ? AND attachment_id IN ?", noteId, attachmentIds).
		Delete(&model.NoteAttachment{}).Error
}

func (r *NoteAttachmentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteAttachment, error) {
	var m model.NoteAttachment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteAttachmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteAttachment, error) {
	var models []*model.NoteAttachment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
