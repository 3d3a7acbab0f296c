package controller

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"my-notes-be/internal/dto"
	"my-notes-be/internal/pkg/apperror"
	"my-notes-be/internal/pkg/serverutils"
	"my-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ChangeName(ctx *fiber.Ctx) error
	ChangeText(ctx *fiber.Ctx) error
	Attach(ctx *fiber.Ctx) error
	AddAttachments(ctx *fiber.Ctx) error
	RemoveAttachments(ctx *fiber.Ctx) error
	DownloadText(ctx *fiber.Ctx) error
	DownloadAttachment(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	authService service.IAuthService
	auth        fiber.Handler
}

func NewNoteController(noteService service.INoteService, authService service.IAuthService, auth fiber.Handler) INoteController {
	return &noteController{
		noteService: noteService,
		authService: authService,
		auth:        auth,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	h.Use(c.auth)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post(":id/name", c.ChangeName)
	h.Post(":id/text", c.ChangeText)
	h.Get(":id/text", c.DownloadText)
	h.Post(":id/attach", c.Attach)
	h.Post(":id/attachment", c.AddAttachments)
	h.Delete(":id/attachment", c.RemoveAttachments)
	h.Get(":id/attachment/:attachmentId", c.DownloadAttachment)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromLocals(ctx)

	id, err := c.noteService.CreateNote(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create note", fiber.Map{"id": id}))
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId := serverutils.UserIdFromLocals(ctx)

	res, err := c.noteService.GetNotes(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	noteId, err := c.checkNoteAccess(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.GetNoteById(ctx.Context(), noteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) ChangeName(ctx *fiber.Ctx) error {
	noteId, err := c.checkNoteAccess(ctx)
	if err != nil {
		return err
	}

	var req dto.ChangeNoteNameRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	id, err := c.noteService.ChangeNoteName(ctx.Context(), noteId, req.Name)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success change note name", fiber.Map{"id": id}))
}

func (c *noteController) ChangeText(ctx *fiber.Ctx) error {
	noteId, err := c.checkNoteAccess(ctx)
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile("text")
	if err != nil {
		return apperror.BadRequest("text file is required")
	}

	id, err := c.noteService.ChangeNoteText(ctx.Context(), noteId, toUploadedFile(fh))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success change note text", fiber.Map{"id": id}))
}

func (c *noteController) Attach(ctx *fiber.Ctx) error {
	noteId, err := c.checkNoteAccess(ctx)
	if err != nil {
		return err
	}

	id, err := c.noteService.AttachNote(ctx.Context(), noteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success attach note", fiber.Map{"id": id}))
}

func (c *noteController) AddAttachments(ctx *fiber.Ctx) error {
	noteId, err := c.checkNoteAccess(ctx)
	if err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return apperror.BadRequest("multipart form is required")
	}
	headers := form.File["attachments"]
	if len(headers) == 0 {
		return apperror.BadRequest("at least one attachment is required")
	}

	files := make([]*dto.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, toUploadedFile(fh))
	}

	ids, err := c.noteService.AddAttachmentsToNote(ctx.Context(), noteId, files)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add attachments", dto.AddAttachmentsResponse{Attachments: ids}))
}

func (c *noteController) RemoveAttachments(ctx *fiber.Ctx) error {
	noteId, err := c.checkNoteAccess(ctx)
	if err != nil {
		return err
	}

	var req dto.RemoveAttachmentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.noteService.RemoveAttachments(ctx.Context(), noteId, req.Attachments); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove attachments", nil))
}

func (c *noteController) DownloadText(ctx *fiber.Ctx) error {
	noteId, err := c.checkNoteAccess(ctx)
	if err != nil {
		return err
	}

	download, err := c.noteService.GetNoteText(ctx.Context(), noteId)
	if err != nil {
		return err
	}

	return sendFile(ctx, download)
}

func (c *noteController) DownloadAttachment(ctx *fiber.Ctx) error {
	noteId, err := c.checkNoteAccess(ctx)
	if err != nil {
		return err
	}

	attachmentId, err := strconv.ParseInt(ctx.Params("attachmentId"), 10, 64)
	if err != nil {
		return apperror.BadRequest("invalid attachment id")
	}

	download, err := c.noteService.GetNoteAttachment(ctx.Context(), noteId, attachmentId)
	if err != nil {
		return err
	}

	return sendFile(ctx, download)
}

// checkNoteAccess parses the note id from the path and verifies the
// authenticated user owns it.
func (c *noteController) checkNoteAccess(ctx *fiber.Ctx) (int64, error) {
	noteId, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, apperror.BadRequest("invalid note id")
	}

	userId := serverutils.UserIdFromLocals(ctx)
	if err := c.authService.CheckUsersPermission(ctx.Context(), userId, noteId); err != nil {
		return 0, err
	}
	return noteId, nil
}

func toUploadedFile(fh *multipart.FileHeader) *dto.UploadedFile {
	return &dto.UploadedFile{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func sendFile(ctx *fiber.Ctx, download *dto.FileDownload) error {
	ctx.Set(fiber.HeaderContentType, download.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", download.Filename))
	return ctx.Send(download.Content)
}
