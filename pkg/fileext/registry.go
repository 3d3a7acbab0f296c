package fileext

import "fmt"

// Extension is a file extension recognized by the attachment pipeline.
type Extension string

const (
	JPG  Extension = "jpg"
	JPEG Extension = "jpeg"
	PNG  Extension = "png"
	GIF  Extension = "gif"
	MP3  Extension = "mp3"
)

// contentTypes is the closed extension registry. It is never mutated after
// process start; attachments can only be created with an extension listed here.
var contentTypes = map[Extension]string{
	JPG:  "image/jpeg",
	JPEG: "image/jpeg",
	PNG:  "image/png",
	GIF:  "image/gif",
	MP3:  "audio/mpeg",
}

// IsSupported reports whether ext belongs to the registry.
func IsSupported(ext string) bool {
	_, ok := contentTypes[Extension(ext)]
	return ok
}

// ContentTypeOf returns the MIME content-type bound to ext.
func ContentTypeOf(ext Extension) (string, error) {
	ct, ok := contentTypes[ext]
	if !ok {
		return "", fmt.Errorf("unknown file extension %q", ext)
	}
	return ct, nil
}

// Values lists the supported extensions.
func Values() []Extension {
	exts := make([]Extension, 0, len(contentTypes))
	for ext := range contentTypes {
		exts = append(exts, ext)
	}
	return exts
}
