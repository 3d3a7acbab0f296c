package dto

type ChangeNoteNameRequest struct {
	Name string `json:"name"`
}

type RemoveAttachmentsRequest struct {
	Attachments []int64 `json:"attachments" validate:"required"`
}

type GetNoteResponse struct {
	Id          int64   `json:"id"`
	Name        string  `json:"name"`
	IsAttached  bool    `json:"is_attached"`
	Attachments []int64 `json:"attachments,omitempty"`
}

type GetNotesResponse struct {
	Notes []*GetNoteResponse `json:"notes"`
}
