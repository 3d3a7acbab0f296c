package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"my-notes-be/internal/dto"
	"my-notes-be/internal/entity"
	"my-notes-be/internal/pkg/apperror"
	"my-notes-be/internal/pkg/logger"
	"my-notes-be/internal/repository/specification"
	"my-notes-be/internal/repository/unitofwork"
	"my-notes-be/pkg/events"
	"my-notes-be/pkg/fileext"
	pktNats "my-notes-be/pkg/nats"
)

const defaultNoteName = "New_note"

type INoteService interface {
	CreateNote(ctx context.Context, userId int64) (int64, error)
	ChangeNoteName(ctx context.Context, id int64, name string) (int64, error)
	ChangeNoteText(ctx context.Context, id int64, text *dto.UploadedFile) (int64, error)
	AttachNote(ctx context.Context, id int64) (int64, error)
	AddAttachmentsToNote(ctx context.Context, id int64, files []*dto.UploadedFile) ([]int64, error)
	RemoveAttachments(ctx context.Context, id int64, attachmentIds []int64) error
	GetNoteById(ctx context.Context, id int64) (*dto.GetNoteResponse, error)
	GetNotes(ctx context.Context, userId int64) (*dto.GetNotesResponse, error)
	GetNoteText(ctx context.Context, id int64) (*dto.FileDownload, error)
	GetNoteAttachment(ctx context.Context, id, attachmentId int64) (*dto.FileDownload, error)
}

type noteService struct {
	uowFactory        unitofwork.RepositoryFactory
	attachmentService IAttachmentService
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	attachmentService IAttachmentService,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:        uowFactory,
		attachmentService: attachmentService,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func (s *noteService) CreateNote(ctx context.Context, userId int64) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note := entity.Note{
		Name:   defaultNoteName,
		UserId: userId,
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return 0, err
	}

	s.publishEvent(ctx, events.NoteCreated, &note, nil)
	return note.Id, nil
}

func (s *noteService) ChangeNoteName(ctx context.Context, id int64, name string) (int64, error) {
	// Blank-name check comes before any lookup; guaranteed-invalid input
	// never reaches the store.
	if strings.TrimSpace(name) == "" {
		return 0, apperror.BadRequest("note name cannot be blank")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := s.findById(ctx, uow, id)
	if err != nil {
		return 0, err
	}

	note.Name = name
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return 0, err
	}

	s.publishEvent(ctx, events.NoteRenamed, note, nil)
	return note.Id, nil
}

func (s *noteService) ChangeNoteText(ctx context.Context, id int64, text *dto.UploadedFile) (int64, error) {
	// Buffer the upload while the note lookup runs; join both before writing.
	contentCh := make(chan readResult, 1)
	go func() {
		contentCh <- bufferUpload(text)
	}()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := s.findById(ctx, uow, id)
	content := <-contentCh
	if err != nil {
		return 0, err
	}
	if content.err != nil {
		return 0, content.err
	}

	note.Text = content.data
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return 0, err
	}

	s.publishEvent(ctx, events.NoteTextChanged, note, nil)
	return note.Id, nil
}

func (s *noteService) AttachNote(ctx context.Context, id int64) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := s.findById(ctx, uow, id)
	if err != nil {
		return 0, err
	}

	note.Attached = true
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return 0, err
	}

	s.publishEvent(ctx, events.NoteAttached, note, nil)
	return note.Id, nil
}

func (s *noteService) AddAttachmentsToNote(ctx context.Context, id int64, files []*dto.UploadedFile) ([]int64, error) {
	// The existence gate and the ingestion pipeline run concurrently and are
	// joined; a missing note fails the operation regardless of how the save
	// side finished.
	type saveResult struct {
		ids []int64
		err error
	}
	saveCh := make(chan saveResult, 1)
	go func() {
		ids, err := s.attachmentService.SaveAttachments(ctx, files)
		saveCh <- saveResult{ids: ids, err: err}
	}()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, noteErr := s.findById(ctx, uow, id)
	saved := <-saveCh
	if noteErr != nil {
		return nil, noteErr
	}
	if saved.err != nil {
		return nil, saved.err
	}

	linkRepo := uow.NoteAttachmentRepository()
	attachmentIds := make([]int64, 0, len(saved.ids))
	for _, attachmentId := range saved.ids {
		link := entity.NoteAttachment{
			NoteId:       note.Id,
			AttachmentId: attachmentId,
		}
		if err := linkRepo.Create(ctx, &link); err != nil {
			return nil, err
		}
		attachmentIds = append(attachmentIds, link.AttachmentId)
	}

	s.publishEvent(ctx, events.AttachmentsAdded, note, attachmentIds)
	return attachmentIds, nil
}

func (s *noteService) RemoveAttachments(ctx context.Context, id int64, attachmentIds []int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := s.findById(ctx, uow, id)
	if err != nil {
		return err
	}

	// Links go first so no link ever points at a deleted attachment.
	if err := uow.NoteAttachmentRepository().DeleteByNoteIdAndAttachmentIds(ctx, id, attachmentIds); err != nil {
		return err
	}
	if err := s.attachmentService.DeleteAttachments(ctx, attachmentIds); err != nil {
		return err
	}

	s.publishEvent(ctx, events.AttachmentsRemoved, note, attachmentIds)
	return nil
}

func (s *noteService) GetNoteById(ctx context.Context, id int64) (*dto.GetNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	type linksResult struct {
		ids []int64
		err error
	}
	linksCh := make(chan linksResult, 1)
	go func() {
		links, err := uow.NoteAttachmentRepository().FindAll(ctx, specification.ByNoteID{NoteID: id})
		if err != nil {
			linksCh <- linksResult{err: err}
			return
		}
		ids := make([]int64, 0, len(links))
		for _, link := range links {
			ids = append(ids, link.AttachmentId)
		}
		linksCh <- linksResult{ids: ids}
	}()

	note, err := s.findById(ctx, uow, id)
	links := <-linksCh
	if err != nil {
		return nil, err
	}
	if links.err != nil {
		return nil, links.err
	}

	res := mapToGetNoteResponse(note)
	res.Attachments = links.ids
	return res, nil
}

func (s *noteService) GetNotes(ctx context.Context, userId int64) (*dto.GetNotesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specification.OwnedByUser{UserID: userId})
	if err != nil {
		return nil, err
	}

	res := dto.GetNotesResponse{Notes: make([]*dto.GetNoteResponse, len(notes))}
	for i, note := range notes {
		res.Notes[i] = mapToGetNoteResponse(note)
	}
	return &res, nil
}

func (s *noteService) GetNoteText(ctx context.Context, id int64) (*dto.FileDownload, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := s.findById(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	return &dto.FileDownload{
		Filename:    fmt.Sprintf("note_%d_text", id),
		ContentType: "text/html",
		Content:     note.Text,
	}, nil
}

func (s *noteService) GetNoteAttachment(ctx context.Context, id, attachmentId int64) (*dto.FileDownload, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Three ordered checks: note exists, attachment exists, and the link
	// proves the attachment belongs to this note. Skipping the last one would
	// let a note owner fetch any attachment by guessing ids.
	if _, err := s.findById(ctx, uow, id); err != nil {
		return nil, err
	}

	attachment, err := s.attachmentService.GetAttachmentById(ctx, attachmentId)
	if err != nil {
		return nil, err
	}

	link, err := uow.NoteAttachmentRepository().FindOne(ctx,
		specification.ByNoteID{NoteID: id},
		specification.ByAttachmentID{AttachmentID: attachmentId},
	)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, apperror.NotFound(
			fmt.Sprintf("note with id %d has no attachment with id %d", id, attachmentId))
	}

	contentType, err := fileext.ContentTypeOf(attachment.Extension)
	if err != nil {
		return nil, apperror.Internal("attachment has an unknown extension", err)
	}

	return &dto.FileDownload{
		Filename:    fmt.Sprintf("note_%d_file", id),
		ContentType: contentType,
		Content:     attachment.File,
	}, nil
}

func (s *noteService) findById(ctx context.Context, uow unitofwork.UnitOfWork, id int64) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound(fmt.Sprintf("could not find note with id %d", id))
	}
	return note, nil
}

// publishEvent pushes the mutation to the in-process bus and mirrors it to
// NATS when available. Event delivery is auxiliary and never fails a request.
func (s *noteService) publishEvent(ctx context.Context, eventType string, note *entity.Note, attachmentIds []int64) {
	if s.publisherService != nil {
		payload := dto.NoteEventMessage{
			Type:          eventType,
			NoteId:        note.Id,
			UserId:        note.UserId,
			NoteName:      note.Name,
			AttachmentIds: attachmentIds,
		}
		msgJson, err := json.Marshal(payload)
		if err == nil {
			err = s.publisherService.Publish(ctx, msgJson)
		}
		if err != nil && s.logger != nil {
			s.logger.Warn("NoteService", "failed to publish note event",
				map[string]interface{}{"event": eventType, "error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewNoteEvent(eventType, note.Id, note.UserId, map[string]interface{}{
			"note_name":      note.Name,
			"attachment_ids": attachmentIds,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil && s.logger != nil {
			s.logger.Warn("NoteService", "failed to mirror note event to NATS",
				map[string]interface{}{"event": eventType, "error": err.Error()})
		}
	}
}

type readResult struct {
	data []byte
	err  error
}

func bufferUpload(file *dto.UploadedFile) readResult {
	rc, err := file.Open()
	if err != nil {
		return readResult{err: apperror.Internal(
			fmt.Sprintf("an error occurred while reading file %s", file.Filename), err)}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return readResult{err: apperror.Internal(
			fmt.Sprintf("an error occurred while reading file %s", file.Filename), err)}
	}
	return readResult{data: data}
}

func mapToGetNoteResponse(note *entity.Note) *dto.GetNoteResponse {
	return &dto.GetNoteResponse{
		Id:         note.Id,
		Name:       note.Name,
		IsAttached: note.Attached,
	}
}
