package meme

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// keySeparators matches character runs that are unsafe or ugly in object keys
// and URLs.
var keySeparators = regexp.MustCompile(`[\s()]+`)

// SanitizeFilename collapses whitespace and parenthesis runs in a user-supplied
// filename into single dashes.
func SanitizeFilename(name string) string {
	return keySeparators.ReplaceAllString(strings.TrimSpace(name), "-")
}

// NewObjectKey derives a collision-resistant blob key from a user-supplied
// filename: a fresh UUID prefix followed by the sanitized name. The key doubles
// as the stored filename in meme metadata.
func NewObjectKey(name string) string {
	return uuid.NewString() + "-" + SanitizeFilename(name)
}
