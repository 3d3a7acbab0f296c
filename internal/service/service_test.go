package service

// In-memory repositories backing the service tests. They honor the handful of
// specifications the services actually use.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"my-notes-be/internal/dto"
	"my-notes-be/internal/entity"
	"my-notes-be/internal/repository/contract"
	"my-notes-be/internal/repository/specification"
	"my-notes-be/internal/repository/unitofwork"
	"my-notes-be/pkg/fileext"
)

type fakeStore struct {
	mu          sync.Mutex
	nextId      int64
	notes       map[int64]*entity.Note
	attachments map[int64]*entity.Attachment
	links       []*entity.NoteAttachment
	users       map[int64]*entity.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		notes:       make(map[int64]*entity.Note),
		attachments: make(map[int64]*entity.Attachment),
		users:       make(map[int64]*entity.User),
	}
}

func (s *fakeStore) newId() int64 {
	s.nextId++
	return s.nextId
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) NoteRepository() contract.NoteRepository {
	return &fakeNoteRepo{store: u.store}
}

func (u *fakeUow) AttachmentRepository() contract.AttachmentRepository {
	return &fakeAttachmentRepo{store: u.store}
}

func (u *fakeUow) NoteAttachmentRepository() contract.NoteAttachmentRepository {
	return &fakeLinkRepo{store: u.store}
}

type fakeNoteRepo struct {
	store *fakeStore
}

func noteMatches(note *entity.Note, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if note.Id != s.ID {
				return false
			}
		case specification.OwnedByUser:
			if note.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *entity.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	note.Id = r.store.newId()
	copied := *note
	r.store.notes[note.Id] = &copied
	return nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.notes[note.Id]; !ok {
		return errors.New("note does not exist")
	}
	copied := *note
	r.store.notes[note.Id] = &copied
	return nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.notes, id)
	return nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, note := range r.store.notes {
		if noteMatches(note, specs) {
			copied := *note
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var res []*entity.Note
	for _, note := range r.store.notes {
		if noteMatches(note, specs) {
			copied := *note
			res = append(res, &copied)
		}
	}
	return res, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	notes, _ := r.FindAll(ctx, specs...)
	return int64(len(notes)), nil
}

type fakeAttachmentRepo struct {
	store *fakeStore
}

func (r *fakeAttachmentRepo) Create(ctx context.Context, attachment *entity.Attachment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	attachment.Id = r.store.newId()
	copied := *attachment
	r.store.attachments[attachment.Id] = &copied
	return nil
}

func (r *fakeAttachmentRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.attachments, id)
	return nil
}

func (r *fakeAttachmentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Attachment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, attachment := range r.store.attachments {
		matches := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByID); ok && attachment.Id != s.ID {
				matches = false
			}
		}
		if matches {
			copied := *attachment
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAttachmentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.attachments)), nil
}

type fakeLinkRepo struct {
	store *fakeStore
}

func linkMatches(link *entity.NoteAttachment, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByNoteID:
			if link.NoteId != s.NoteID {
				return false
			}
		case specification.ByAttachmentID:
			if link.AttachmentId != s.AttachmentID {
				return false
			}
		case specification.ByAttachmentIDs:
			found := false
			for _, id := range s.AttachmentIDs {
				if link.AttachmentId == id {
					found = true
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func (r *fakeLinkRepo) Create(ctx context.Context, link *entity.NoteAttachment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	link.Id = r.store.newId()
	copied := *link
	r.store.links = append(r.store.links, &copied)
	return nil
}

func (r *fakeLinkRepo) DeleteByNoteIdAndAttachmentIds(ctx context.Context, noteId int64, attachmentIds []int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var kept []*entity.NoteAttachment
	for _, link := range r.store.links {
		remove := false
		if link.NoteId == noteId {
			for _, id := range attachmentIds {
				if link.AttachmentId == id {
					remove = true
				}
			}
		}
		if !remove {
			kept = append(kept, link)
		}
	}
	r.store.links = kept
	return nil
}

func (r *fakeLinkRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteAttachment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, link := range r.store.links {
		if linkMatches(link, specs) {
			copied := *link
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeLinkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteAttachment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var res []*entity.NoteAttachment
	for _, link := range r.store.links {
		if linkMatches(link, specs) {
			copied := *link
			res = append(res, &copied)
		}
	}
	return res, nil
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.Id = r.store.newId()
	copied := *user
	r.store.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		matches := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				if user.Id != s.ID {
					matches = false
				}
			case specification.ByEmail:
				if user.Email != s.Email {
					matches = false
				}
			}
		}
		if matches {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.users)), nil
}

// fakePublisher records every payload published to the in-process bus.
type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.payloads...)
}

func upload(name string, content []byte) *dto.UploadedFile {
	return &dto.UploadedFile{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// trackedUpload reports whether its content was ever opened.
func trackedUpload(name string, opened *bool) *dto.UploadedFile {
	return &dto.UploadedFile{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			*opened = true
			return io.NopCloser(bytes.NewReader(nil)), nil
		},
	}
}

func seedNote(store *fakeStore, userId int64, name string) *entity.Note {
	store.mu.Lock()
	defer store.mu.Unlock()
	note := &entity.Note{
		Id:     store.newId(),
		Name:   name,
		UserId: userId,
	}
	store.notes[note.Id] = note
	return note
}

func seedAttachment(store *fakeStore, content []byte, ext string) *entity.Attachment {
	store.mu.Lock()
	defer store.mu.Unlock()
	attachment := &entity.Attachment{
		Id:        store.newId(),
		File:      content,
		Extension: fileext.Extension(ext),
	}
	store.attachments[attachment.Id] = attachment
	return attachment
}

func seedLink(store *fakeStore, noteId, attachmentId int64) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.links = append(store.links, &entity.NoteAttachment{
		Id:           store.newId(),
		NoteId:       noteId,
		AttachmentId: attachmentId,
	})
}
