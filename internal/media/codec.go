package media

import (
	"encoding/base64"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

// Encoder turns a raw file into the transport string sent to the backend.
type Encoder interface {
	Encode(file File) (string, error)
}

// Inspector checks that a file is an acceptable gallery image.
type Inspector interface {
	Inspect(file File) error
}

// DataURICodec encodes images as base64 data URIs and enforces the gallery
// upload rules. It is stateless and safe for concurrent use.
type DataURICodec struct {
	maxBytes int64
}

// NewDataURICodec builds a codec; maxBytes <= 0 disables the size limit.
func NewDataURICodec(maxBytes int64) *DataURICodec {
	return &DataURICodec{maxBytes: maxBytes}
}

// Inspect validates name, size and sniffed content type.
func (c *DataURICodec) Inspect(file File) error {
	if strings.TrimSpace(file.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if len(file.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is empty", file.Name))
	}
	if c.maxBytes > 0 && file.Size() > c.maxBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s exceeds the %d byte upload limit", file.Name, c.maxBytes))
	}
	if mimeType := DetectMimeType(file.Data); !IsAllowedImage(mimeType) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be %s (got %s)", file.Name, AllowedImageDescription(), mimeType))
	}
	return nil
}

// Encode returns data:<mime>;base64,<payload>. Output depends only on the bytes.
func (c *DataURICodec) Encode(file File) (string, error) {
	if len(file.Data) == 0 {
		return "", fmt.Errorf("encode %s: empty file", file.Name)
	}
	mimeType := DetectMimeType(file.Data)
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(file.Data)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(file.Data))
	return b.String(), nil
}
