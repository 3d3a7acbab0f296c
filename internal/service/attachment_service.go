package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"my-notes-be/internal/dto"
	"my-notes-be/internal/entity"
	"my-notes-be/internal/pkg/apperror"
	"my-notes-be/internal/repository/specification"
	"my-notes-be/internal/repository/unitofwork"
	"my-notes-be/pkg/fileext"
)

type IAttachmentService interface {
	// SaveAttachments validates and persists an upload batch, returning the
	// new attachment ids in input order.
	SaveAttachments(ctx context.Context, files []*dto.UploadedFile) ([]int64, error)
	GetAttachmentById(ctx context.Context, id int64) (*entity.Attachment, error)
	// DeleteAttachments removes attachments one by one, aborting on the first
	// missing id. Already-deleted ids are not restored.
	DeleteAttachments(ctx context.Context, ids []int64) error
}

type attachmentService struct {
	uowFactory    unitofwork.RepositoryFactory
	maxFileAmount int
	maxFileSizeMb int
}

func NewAttachmentService(uowFactory unitofwork.RepositoryFactory, maxFileAmount, maxFileSizeMb int) IAttachmentService {
	return &attachmentService{
		uowFactory:    uowFactory,
		maxFileAmount: maxFileAmount,
		maxFileSizeMb: maxFileSizeMb,
	}
}

// bufferedFile is a fully validated upload ready for persistence.
type bufferedFile struct {
	content   []byte
	extension fileext.Extension
}

func (s *attachmentService) SaveAttachments(ctx context.Context, files []*dto.UploadedFile) ([]int64, error) {
	// Batch-level gate runs before any per-file work so an oversized batch
	// costs nothing in buffering.
	if len(files) > s.maxFileAmount {
		return nil, apperror.BadRequest(
			fmt.Sprintf("the number of files exceeds the limit of %d files", s.maxFileAmount))
	}

	// Per-file validation fans out concurrently; results land in per-index
	// slots so no locking is needed.
	buffered := make([]*bufferedFile, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file *dto.UploadedFile) {
			defer wg.Done()
			buffered[i], errs[i] = s.validateAttachment(file)
		}(i, file)
	}
	wg.Wait()

	// First failure in input order wins; nothing has been persisted yet.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// Second phase: persist the whole batch in input order.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.AttachmentRepository()
	ids := make([]int64, 0, len(files))
	for _, f := range buffered {
		attachment := &entity.Attachment{
			File:      f.content,
			Extension: f.extension,
		}
		if err := repo.Create(ctx, attachment); err != nil {
			return nil, err
		}
		ids = append(ids, attachment.Id)
	}

	return ids, nil
}

// validateAttachment checks the extension before touching content, then
// buffers the stream fully so the real size is known before the MB check.
func (s *attachmentService) validateAttachment(file *dto.UploadedFile) (*bufferedFile, error) {
	parts := strings.Split(file.Filename, ".")
	if len(parts) < 2 {
		return nil, apperror.BadRequest("file has no extension")
	}
	ext := parts[1]
	if !fileext.IsSupported(ext) {
		return nil, apperror.BadRequest(fmt.Sprintf("attachment format %s is not supported", ext))
	}

	rc, err := file.Open()
	if err != nil {
		return nil, apperror.Internal(fmt.Sprintf("an error occurred while reading file %s", file.Filename), err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperror.Internal(fmt.Sprintf("an error occurred while reading file %s", file.Filename), err)
	}

	if fromBytesToMegaBytes(len(content)) > s.maxFileSizeMb {
		return nil, apperror.BadRequest(fmt.Sprintf(
			"file size exceeds the maximum of %d MB (file has %d bytes)", s.maxFileSizeMb, len(content)))
	}

	return &bufferedFile{
		content:   content,
		extension: fileext.Extension(ext),
	}, nil
}

func (s *attachmentService) GetAttachmentById(ctx context.Context, id int64) (*entity.Attachment, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.findById(ctx, uow, id)
}

func (s *attachmentService) findById(ctx context.Context, uow unitofwork.UnitOfWork, id int64) (*entity.Attachment, error) {
	attachment, err := uow.AttachmentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if attachment == nil {
		return nil, apperror.NotFound(fmt.Sprintf("no attachment with id %d exists", id))
	}
	return attachment, nil
}

func (s *attachmentService) DeleteAttachments(ctx context.Context, ids []int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	for _, id := range ids {
		if _, err := s.findById(ctx, uow, id); err != nil {
			return err
		}
		if err := uow.AttachmentRepository().Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func fromBytesToMegaBytes(bytes int) int {
	return bytes / 1024 / 1024
}
