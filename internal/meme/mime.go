package meme

import (
	"sort"
	"strings"
)

// mimeTypes is the fixed extension→MIME-type catalog. It is the single source
// of truth for which upload formats the service accepts.
var mimeTypes = map[string]string{
	"bmp":  "image/bmp",
	"gif":  "image/gif",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"mp4":  "video/mp4",
	"mpeg": "video/mpeg",
	"webm": "video/webm",
}

// LookupContentType returns the MIME type for a file extension (without the
// leading dot). Extensions are matched case-insensitively.
func LookupContentType(ext string) (string, bool) {
	ct, ok := mimeTypes[strings.ToLower(ext)]
	return ct, ok
}

// SupportedExtensions returns the sorted list of accepted file extensions.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(mimeTypes))
	for ext := range mimeTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
