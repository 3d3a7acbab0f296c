package dto

import "io"

// UploadedFile is the transport-agnostic view of one uploaded file.
// Open returns the raw content stream; the ingestion pipeline buffers it
// fully before size validation, so the stream is read exactly once.
type UploadedFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// FileDownload carries a payload to the response sink, which frames it as a
// content-disposition attachment.
type FileDownload struct {
	Filename    string
	ContentType string
	Content     []byte
}

type AddAttachmentsResponse struct {
	Attachments []int64 `json:"attachments"`
}
