package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

type exitBody struct {
	Kind string `json:"kind" validate:"required,oneof=navigate unload"`
	From *int   `json:"from" validate:"omitempty,gte=0"`
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"kind":"fly"}`))

	var body exitBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected string details, got %T", typed.Details())
	}
	if details["kind"] != "must be one of navigate unload" {
		t.Fatalf("unexpected detail %q", details["kind"])
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"kind":"navigate","extra":1}`))

	var body exitBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"kind":"unload","from":0}`))

	var body exitBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Kind != "unload" || body.From == nil || *body.From != 0 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func multipartRequest(t *testing.T, field string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDecodeMultipartFilesSanitizesNames(t *testing.T) {
	req := multipartRequest(t, "files", map[string]string{"summer shot.png": "abc"})

	files, err := DecodeMultipartFiles(httptest.NewRecorder(), req, "files", 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one file, got %d", len(files))
	}
	if files[0].Name != "summer-shot.png" || string(files[0].Data) != "abc" {
		t.Fatalf("unexpected file %q %q", files[0].Name, files[0].Data)
	}
}

func TestDecodeMultipartFilesRequiresField(t *testing.T) {
	req := multipartRequest(t, "other", map[string]string{"a.png": "abc"})

	_, err := DecodeMultipartFiles(httptest.NewRecorder(), req, "files", 0)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeMultipartFilesEnforcesLimit(t *testing.T) {
	req := multipartRequest(t, "files", map[string]string{"big.png": strings.Repeat("x", 4096)})

	_, err := DecodeMultipartFiles(httptest.NewRecorder(), req, "files", 512)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "upload too large" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}
