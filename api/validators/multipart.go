package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/angelmondragon/packfinderz-configurator/internal/media"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

// multipartMemory is the in-memory threshold before parts spill to disk.
const multipartMemory = 32 << 20

// DecodeMultipartFiles reads every part of the named form field. maxBytes
// bounds the whole request body; zero disables the limit.
func DecodeMultipartFiles(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) ([]media.File, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload too large").
				WithDetails(map[string]any{"limit_bytes": tooLarge.Limit})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{field: "is required"})
	}

	files := make([]media.File, 0, len(headers))
	for _, header := range headers {
		data, err := readPart(header)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload").
				WithDetails(map[string]string{"file": header.Filename})
		}
		files = append(files, media.NewFile(header.Filename, data))
	}
	return files, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
