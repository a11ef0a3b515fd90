package meme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a meme does not exist.
var ErrNotFound = errors.New("meme not found")

// ErrNothingToUpdate is returned when an update supplies neither a new file
// nor a new description.
var ErrNothingToUpdate = errors.New("nothing to update: provide a file or a description")

// ErrConstraintViolation is returned when the database rejects a write.
var ErrConstraintViolation = errors.New("constraint violation")

// UnsupportedFormatError is returned when a filename has no extension or an
// extension outside the supported catalog.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q, supported extensions: %s",
		e.Filename, strings.Join(SupportedExtensions(), ", "))
}

// ForbiddenFieldError is returned when an update attempts to set a field that
// is immutable or derived (id, timestamps, content_type).
type ForbiddenFieldError struct {
	Field string
}

func (e *ForbiddenFieldError) Error() string {
	return fmt.Sprintf("field %q cannot be updated", e.Field)
}
