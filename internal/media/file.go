package media

import (
	"path"
	"strings"
	"unicode"
)

// File is a raw image as uploaded by the operator.
type File struct {
	Name string
	Data []byte
}

// Size returns the payload length in bytes.
func (f File) Size() int64 {
	return int64(len(f.Data))
}

// NewFile normalizes the file name the same way every gallery lookup does.
func NewFile(name string, data []byte) File {
	return File{Name: SanitizeFileName(name), Data: data}
}

// SanitizeFileName strips directories, control characters and surrounding
// punctuation, and turns whitespace into dashes.
func SanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if clean == "" || clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('-')
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
