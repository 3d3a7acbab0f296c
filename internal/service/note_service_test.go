package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"my-notes-be/internal/dto"
	"my-notes-be/internal/entity"
	"my-notes-be/internal/pkg/apperror"
	"my-notes-be/internal/repository/specification"
	"my-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoteService(store *fakeStore, pub *fakePublisher) INoteService {
	factory := &fakeFactory{store: store}
	attachments := NewAttachmentService(factory, 5, 10)
	return NewNoteService(factory, attachments, pub, nil, nil)
}

func lastEvent(t *testing.T, pub *fakePublisher) dto.NoteEventMessage {
	t.Helper()
	payloads := pub.published()
	require.NotEmpty(t, payloads)
	var msg dto.NoteEventMessage
	require.NoError(t, json.Unmarshal(payloads[len(payloads)-1], &msg))
	return msg
}

func TestCreateNoteUsesDefaultName(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := newNoteService(store, pub)

	id, err := svc.CreateNote(context.Background(), 7)

	require.NoError(t, err)
	note := store.notes[id]
	require.NotNil(t, note)
	assert.Equal(t, "New_note", note.Name)
	assert.Equal(t, int64(7), note.UserId)
	assert.False(t, note.Attached)

	evt := lastEvent(t, pub)
	assert.Equal(t, events.NoteCreated, evt.Type)
	assert.Equal(t, id, evt.NoteId)
}

func TestChangeNoteNameRejectsBlankBeforeLookup(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})

	// The note does not even exist; the blank check still wins.
	_, err := svc.ChangeNoteName(context.Background(), 999, "   \t")

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	assert.Contains(t, err.Error(), "blank")
}

func TestChangeNoteNameMissingNote(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := newNoteService(store, pub)

	_, err := svc.ChangeNoteName(context.Background(), 999, "valid name")

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Empty(t, pub.published())
}

func TestChangeNoteName(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := newNoteService(store, pub)
	note := seedNote(store, 1, "old")

	id, err := svc.ChangeNoteName(context.Background(), note.Id, "new name")

	require.NoError(t, err)
	assert.Equal(t, note.Id, id)
	assert.Equal(t, "new name", store.notes[note.Id].Name)

	evt := lastEvent(t, pub)
	assert.Equal(t, events.NoteRenamed, evt.Type)
	assert.Equal(t, "new name", evt.NoteName)
}

func TestChangeNoteTextStoresUpload(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := newNoteService(store, pub)
	note := seedNote(store, 1, "n")

	_, err := svc.ChangeNoteText(context.Background(), note.Id, upload("body.html", []byte("<p>hi</p>")))

	require.NoError(t, err)
	assert.Equal(t, []byte("<p>hi</p>"), store.notes[note.Id].Text)
	assert.Equal(t, events.NoteTextChanged, lastEvent(t, pub).Type)
}

func TestChangeNoteTextMissingNoteWinsOverReadFailure(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})

	broken := &dto.UploadedFile{
		Filename: "body.html",
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("stream gone")
		},
	}

	_, err := svc.ChangeNoteText(context.Background(), 404, broken)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestAttachNoteSetsFlag(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := newNoteService(store, pub)
	note := seedNote(store, 1, "n")

	_, err := svc.AttachNote(context.Background(), note.Id)

	require.NoError(t, err)
	assert.True(t, store.notes[note.Id].Attached)
	assert.Equal(t, events.NoteAttached, lastEvent(t, pub).Type)
}

func TestAddAttachmentsToNoteLinksInOrder(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := newNoteService(store, pub)
	note := seedNote(store, 1, "n")

	ids, err := svc.AddAttachmentsToNote(context.Background(), note.Id, []*dto.UploadedFile{
		upload("a.png", []byte("a")),
		upload("b.gif", []byte("b")),
	})

	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Len(t, store.links, 2)
	assert.Equal(t, ids[0], store.links[0].AttachmentId)
	assert.Equal(t, ids[1], store.links[1].AttachmentId)
	assert.Equal(t, note.Id, store.links[0].NoteId)

	evt := lastEvent(t, pub)
	assert.Equal(t, events.AttachmentsAdded, evt.Type)
	assert.Equal(t, ids, evt.AttachmentIds)
}

func TestAddAttachmentsToNoteMissingNoteCreatesNoLinks(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})

	_, err := svc.AddAttachmentsToNote(context.Background(), 404, []*dto.UploadedFile{
		upload("a.png", []byte("a")),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Empty(t, store.links)
}

func TestAddAttachmentsToNoteValidationFailureCreatesNothing(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})
	note := seedNote(store, 1, "n")

	_, err := svc.AddAttachmentsToNote(context.Background(), note.Id, []*dto.UploadedFile{
		upload("bad.exe", []byte("x")),
	})

	require.Error(t, err)
	assert.Empty(t, store.links)
	assert.Empty(t, store.attachments)
}

func TestRemoveAttachmentsKeepsReferentialIntegrity(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := newNoteService(store, pub)
	note := seedNote(store, 1, "n")
	a := seedAttachment(store, []byte("a"), "png")
	b := seedAttachment(store, []byte("b"), "jpg")
	seedLink(store, note.Id, a.Id)
	seedLink(store, note.Id, b.Id)

	err := svc.RemoveAttachments(context.Background(), note.Id, []int64{a.Id})

	require.NoError(t, err)
	assert.NotContains(t, store.attachments, a.Id)
	assert.Contains(t, store.attachments, b.Id)
	for _, link := range store.links {
		assert.NotEqual(t, a.Id, link.AttachmentId)
	}
	assert.Equal(t, events.AttachmentsRemoved, lastEvent(t, pub).Type)
}

func TestRemoveAttachmentsMissingAttachmentLeavesNoDanglingLinks(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})
	note := seedNote(store, 1, "n")
	a := seedAttachment(store, []byte("a"), "png")
	seedLink(store, note.Id, a.Id)

	err := svc.RemoveAttachments(context.Background(), note.Id, []int64{a.Id, 999})

	require.Error(t, err)
	// Links go before attachments, so even a partial failure leaves no link
	// pointing at a removed attachment.
	for _, link := range store.links {
		assert.Contains(t, store.attachments, link.AttachmentId)
	}
}

func TestGetNoteByIdIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})
	note := seedNote(store, 1, "n")
	a := seedAttachment(store, []byte("a"), "png")
	seedLink(store, note.Id, a.Id)

	first, err := svc.GetNoteById(context.Background(), note.Id)
	require.NoError(t, err)
	second, err := svc.GetNoteById(context.Background(), note.Id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []int64{a.Id}, first.Attachments)
	assert.Equal(t, note.Id, first.Id)
}

func TestGetNotesReturnsOnlyOwnersNotes(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})
	mine := seedNote(store, 1, "mine")
	seedNote(store, 2, "theirs")

	res, err := svc.GetNotes(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, mine.Id, res.Notes[0].Id)
}

func TestGetNoteTextDownload(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})
	note := seedNote(store, 1, "n")
	store.notes[note.Id].Text = []byte("<p>body</p>")

	dl, err := svc.GetNoteText(context.Background(), note.Id)

	require.NoError(t, err)
	assert.Equal(t, "text/html", dl.ContentType)
	assert.Contains(t, dl.Filename, "text")
	assert.Equal(t, []byte("<p>body</p>"), dl.Content)
}

func TestGetNoteAttachmentRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})
	note := seedNote(store, 1, "n")
	a := seedAttachment(store, []byte{0x89, 0x50, 0x4E, 0x47}, "png")
	seedLink(store, note.Id, a.Id)

	dl, err := svc.GetNoteAttachment(context.Background(), note.Id, a.Id)

	require.NoError(t, err)
	assert.Equal(t, "image/png", dl.ContentType)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, dl.Content)
}

func TestGetNoteAttachmentRejectsUnlinkedAttachment(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})
	note := seedNote(store, 1, "n")
	other := seedNote(store, 2, "other")
	a := seedAttachment(store, []byte("a"), "png")
	seedLink(store, other.Id, a.Id)

	_, err := svc.GetNoteAttachment(context.Background(), note.Id, a.Id)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Contains(t, err.Error(), "has no attachment")
}

func TestGetNoteAttachmentMissingNote(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})
	a := seedAttachment(store, []byte("a"), "png")

	_, err := svc.GetNoteAttachment(context.Background(), 404, a.Id)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Contains(t, err.Error(), "note")
}

func TestRepeatedAttachOfSamePairAddsSecondLinkRow(t *testing.T) {
	store := newFakeStore()
	svc := newNoteService(store, &fakePublisher{})
	note := seedNote(store, 1, "linked twice")
	a := seedAttachment(store, []byte("a"), "png")

	ctx := context.Background()
	linkRepo := (&fakeFactory{store: store}).NewUnitOfWork(ctx).NoteAttachmentRepository()

	// No uniqueness constraint on (note, attachment): attaching the same
	// pair again inserts another link row.
	for i := 0; i < 2; i++ {
		require.NoError(t, linkRepo.Create(ctx, &entity.NoteAttachment{
			NoteId:       note.Id,
			AttachmentId: a.Id,
		}))
	}

	links, err := linkRepo.FindAll(ctx, specification.ByNoteID{NoteID: note.Id})
	require.NoError(t, err)
	require.Len(t, links, 2)

	// The composed view reports the attachment id once per link row.
	res, err := svc.GetNoteById(ctx, note.Id)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.Id, a.Id}, res.Attachments)

	// Removal matches on the pair, so both rows go at once.
	require.NoError(t, svc.RemoveAttachments(ctx, note.Id, []int64{a.Id}))
	assert.Empty(t, store.links)
	assert.NotContains(t, store.attachments, a.Id)
}
