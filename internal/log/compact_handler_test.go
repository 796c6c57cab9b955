package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestCompactHandler_AbbreviatesIdentifiers tests identifier shortening.
func TestCompactHandler_AbbreviatesIdentifiers(t *testing.T) {
	t.Parallel()

	longHash := strings.Repeat("ab", 32)
	pubKey := "02" + strings.Repeat("cd", 32)

	tests := []struct {
		name      string
		key       string
		value     string
		wantShort bool
	}{
		{
			name:      "payment hash key is abbreviated",
			key:       "payment_hash",
			value:     longHash,
			wantShort: true,
		},
		{
			name:      "node_id key is abbreviated",
			key:       "node_id",
			value:     pubKey,
			wantShort: true,
		},
		{
			name:      "hex value under unknown key is abbreviated",
			key:       "unrelated",
			value:     longHash,
			wantShort: true,
		},
		{
			name:      "short value passes through",
			key:       "payment_hash",
			value:     "beef01",
			wantShort: false,
		},
		{
			name:      "long non-hex value passes through",
			key:       "message",
			value:     "this is a perfectly ordinary log message",
			wantShort: false,
		},
		{
			name:      "alias passes through",
			key:       "alias",
			value:     "Node n3",
			wantShort: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewCompactHandler(slog.NewTextHandler(&buf, nil)))

			logger.Info("test", tt.key, tt.value)

			output := buf.String()
			if tt.wantShort {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected %q to be abbreviated, got: %s", tt.value, output)
				}
				if !strings.Contains(output, Abbreviate(tt.value)) {
					t.Errorf("expected abbreviated form %q, got: %s", Abbreviate(tt.value), output)
				}
			} else if !strings.Contains(output, tt.value) {
				t.Errorf("expected %q to pass through, got: %s", tt.value, output)
			}
		})
	}
}

// TestCompactHandler_RewritesGroups tests that grouped attributes are rewritten.
func TestCompactHandler_RewritesGroups(t *testing.T) {
	t.Parallel()

	longHash := strings.Repeat("ef", 32)

	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("test", slog.Group("payment", slog.String("payment_hash", longHash)))

	if strings.Contains(buf.String(), longHash) {
		t.Errorf("expected grouped identifier to be abbreviated, got: %s", buf.String())
	}
}

// TestCompactHandler_WithAttrs tests that persistent attributes are rewritten.
func TestCompactHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	longHash := strings.Repeat("12", 32)

	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(slog.NewTextHandler(&buf, nil)))
	logger = logger.With("observer", longHash)

	logger.Info("test")

	if strings.Contains(buf.String(), longHash) {
		t.Errorf("expected persistent attribute to be abbreviated, got: %s", buf.String())
	}
}

// TestAbbreviate tests the shortening helper directly.
func TestAbbreviate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ab", 32)
	if got := Abbreviate(long); got != "abababab..abababab" {
		t.Errorf("unexpected abbreviation: %s", got)
	}
	if got := Abbreviate("short"); got != "short" {
		t.Errorf("expected short value unchanged, got %s", got)
	}
}

// TestNewLogger tests level configuration.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("debug message")
		if !strings.Contains(buf.String(), "debug message") {
			t.Error("expected debug output in verbose mode")
		}
	})

	t.Run("non-verbose suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("info message")
		if buf.Len() != 0 {
			t.Errorf("expected no output below warn level, got: %s", buf.String())
		}
	})

	t.Run("json logger emits json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewJSONLogger(&buf, true)

		logger.Warn("warn message")
		if !strings.Contains(buf.String(), `"msg":"warn message"`) {
			t.Errorf("expected JSON output, got: %s", buf.String())
		}
	})
}
