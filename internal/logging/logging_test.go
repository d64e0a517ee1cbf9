package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"roomaudit/internal/logging"
)

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("scan started", "rooms", 3)
	if !strings.Contains(buf.String(), "scan started") {
		t.Fatalf("expected message in output, got %q", buf.String())
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("repair complete", "fixed", 2)
	if !strings.Contains(buf.String(), `"fixed":2`) {
		t.Fatalf("expected json attrs, got %q", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := logging.New(logging.Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
