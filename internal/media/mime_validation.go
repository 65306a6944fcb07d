package media

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPEG",
	"image/webp": "WebP",
	"image/gif":  "GIF",
}

var allowedImageDescription = buildAllowedDescription()

func buildAllowedDescription() string {
	names := make([]string, 0, len(allowedImageTypes))
	for _, name := range allowedImageTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return humanReadableList(names)
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}

// DetectMimeType sniffs the content type from the file bytes, ignoring the extension.
func DetectMimeType(data []byte) string {
	detected := mimetype.Detect(data)
	if detected == nil {
		return "application/octet-stream"
	}
	return strings.ToLower(strings.SplitN(detected.String(), ";", 2)[0])
}

// IsAllowedImage reports whether mimeType is a gallery-compatible image type.
func IsAllowedImage(mimeType string) bool {
	_, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(mimeType))]
	return ok
}

// AllowedImageDescription lists the accepted formats for error messages.
func AllowedImageDescription() string {
	return allowedImageDescription
}
