package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "json", Out: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info().Msg("should be dropped")
	logger.Warn().Msg("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info message emitted at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestComponentTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Out: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	comp := Component(logger, "tracker")
	comp.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"component":"tracker"`) {
		t.Errorf("component field missing from output: %s", buf.String())
	}
}
