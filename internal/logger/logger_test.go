package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Info("post saved", "id", "abc")

	assert.Contains(t, buf.String(), `"msg":"post saved"`)
	assert.Contains(t, buf.String(), `"id":"abc"`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{"production uses json", "production", true},
		{"development uses pretty", "development", false},
		{"staging uses pretty", "staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			log.Info("hello")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"hello"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.Contains(t, buf.String(), "hello")
			}
		})
	}
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelWarn, Format: "pretty", Writer: &buf, NoColor: true})

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN shown")
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelDebug, Format: "pretty", Writer: &buf, NoColor: true})

	log.With("component", "store").WithGroup("post").Info("updated", "id", "k1")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "component=store")
	assert.Contains(t, line, "post.id=k1")
	assert.NotContains(t, line, "\033[")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Component("editor").Info("opened")
	log.WithError(errors.New("disk full")).Error("save failed")

	out := buf.String()
	assert.Contains(t, out, `"component":"editor"`)
	assert.Contains(t, out, `"error":"disk full"`)
}

func TestOrDiscard(t *testing.T) {
	require.NotNil(t, OrDiscard(nil))

	l := slog.Default()
	assert.Same(t, l, OrDiscard(l))
}
