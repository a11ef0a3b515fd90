// Package meme manages meme media files: blob content in object storage and
// metadata rows in the database.
package meme

import (
	"strings"
	"time"
)

// Meme is the metadata record describing a stored media file. ID and the
// timestamps are assigned by the repository on insert.
type Meme struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	Description *string   `json:"description,omitempty"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// New validates filename against the supported-format catalog and returns a
// Meme with its content type derived from the extension. The extension is the
// segment after the last dot; a name with no dot fails.
func New(filename string, description *string) (*Meme, error) {
	ct, err := contentTypeFor(filename)
	if err != nil {
		return nil, err
	}

	return &Meme{
		Filename:    filename,
		Description: description,
		ContentType: ct,
	}, nil
}

// contentTypeFor derives the MIME type for filename from its extension.
func contentTypeFor(filename string) (string, error) {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return "", &UnsupportedFormatError{Filename: filename}
	}

	ct, ok := LookupContentType(filename[dot+1:])
	if !ok {
		return "", &UnsupportedFormatError{Filename: filename}
	}
	return ct, nil
}
