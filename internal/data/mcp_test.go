package data

import "testing"

func TestFormatResultMeta(t *testing.T) {
	if got := formatResultMeta(nil); got != "" {
		t.Fatalf("nil meta should format to empty string, got %q", got)
	}

	var absent map[string]any
	if got := formatResultMeta(absent); got != "" {
		t.Fatalf("typed nil meta should format to empty string, got %q", got)
	}

	if got := formatResultMeta(map[string]any{}); got != "" {
		t.Fatalf("empty meta should format to empty string, got %q", got)
	}

	got := formatResultMeta(map[string]any{"count": 1})
	if got != `{"count":1}` {
		t.Fatalf("unexpected formatted meta: %q", got)
	}
}
