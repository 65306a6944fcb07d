package types

import (
	"encoding/json"
	"testing"
)

func TestErrorEnvelopeOmitsEmptyDetails(t *testing.T) {
	raw, err := json.Marshal(ErrorEnvelope{Error: APIError{Code: "NOT_FOUND", Message: "resource not found"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":{"code":"NOT_FOUND","message":"resource not found"}}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}

	raw, err = json.Marshal(ErrorEnvelope{Error: APIError{
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
		Details: map[string]string{"red_images": "at least one image is required"},
	}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want = `{"error":{"code":"VALIDATION_ERROR","message":"validation failed","details":{"red_images":"at least one image is required"}}}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}
