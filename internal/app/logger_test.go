package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLogHandlerDefaultsToJSON(t *testing.T) {
	for _, format := range []string{"", "json", "unknown"} {
		var buf bytes.Buffer
		logger := slog.New(newLogHandler(&buf, format))
		logger.Info("startup", slog.String("addr", ":8080"))

		var payload map[string]any
		if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
			t.Fatalf("format %q: expected JSON output, got %q (%v)", format, buf.String(), err)
		}
		if payload["msg"] != "startup" || payload["addr"] != ":8080" {
			t.Fatalf("format %q: unexpected record %v", format, payload)
		}
	}
}

func TestLogHandlerPrettyIsText(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, "pretty"))
	logger.Info("startup")

	out := buf.String()
	if !strings.Contains(out, "msg=startup") {
		t.Fatalf("expected text output, got %q", out)
	}
	if json.Valid(buf.Bytes()) {
		t.Fatalf("pretty output must not be JSON: %q", out)
	}
}
