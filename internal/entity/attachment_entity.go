package entity

import (
	"time"

	"my-notes-be/pkg/fileext"
)

// Attachment is a stored binary blob. Instances are only created by the
// validated ingestion pipeline, never with an arbitrary extension.
type Attachment struct {
	Id        int64
	File      []byte
	Extension fileext.Extension
	CreatedAt time.Time
}
