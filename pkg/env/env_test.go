package env

import "testing"

func TestGetFallsBackWhenUnsetOrEmpty(t *testing.T) {
	t.Setenv("CONFIGURATOR_TEST_LOG_FORMAT", "")
	if got := Get("CONFIGURATOR_TEST_LOG_FORMAT", "json"); got != "json" {
		t.Fatalf("expected fallback for empty value, got %q", got)
	}

	t.Setenv("CONFIGURATOR_TEST_LOG_FORMAT", "console")
	if got := Get("CONFIGURATOR_TEST_LOG_FORMAT", "json"); got != "console" {
		t.Fatalf("expected environment value, got %q", got)
	}
}
