package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// identifierKeys contains attribute keys whose values are hash-shaped
// identifiers worth abbreviating in terminal output.
var identifierKeys = map[string]bool{
	"payment_hash": true,
	"node_id":      true,
	"node":         true,
	"observer":     true,
	"observed_by":  true,
	"channel_id":   true,
	"recipient":    true,
	"sender":       true,
}

// hexIdentifier matches long hexadecimal strings such as payment hashes
// (64 chars) and compressed public keys (66 chars).
var hexIdentifier = regexp.MustCompile(`^[0-9a-fA-F]{32,}$`)

// abbreviateThreshold is the minimum length before a value is shortened.
const abbreviateThreshold = 20

// CompactHandler wraps an slog.Handler to abbreviate hash-shaped
// identifiers. Payment hashes and node public keys are 64 to 66 hex
// characters and make text logs unreadable at full length, so the
// handler shortens them to a head..tail form before passing the record
// to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites keep logging full identifiers and stay grep-friendly
//     when the handler is swapped for a plain one
type CompactHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler
}

// NewCompactHandler creates a new CompactHandler wrapping the given handler.
// If handler is nil, the returned CompactHandler will use slog.Default().Handler().
func NewCompactHandler(handler slog.Handler) *CompactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &CompactHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *CompactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying handler.
func (h *CompactHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rewritten before being added.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &CompactHandler{handler: h.handler.WithAttrs(rewritten)}
}

// WithGroup returns a new handler with the given group name.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	return &CompactHandler{handler: h.handler.WithGroup(name)}
}

// rewriteAttr abbreviates a single attribute, recursively handling groups.
func (h *CompactHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	value := a.Value.String()
	if len(value) <= abbreviateThreshold {
		return a
	}

	keyLower := strings.ToLower(a.Key)
	if identifierKeys[keyLower] || hexIdentifier.MatchString(value) {
		return slog.String(a.Key, Abbreviate(value))
	}

	return a
}

// Abbreviate shortens an identifier to its first and last eight
// characters. Values at or below the threshold pass through unchanged.
func Abbreviate(value string) string {
	if len(value) <= abbreviateThreshold {
		return value
	}
	return value[:8] + ".." + value[len(value)-8:]
}

// NewLogger creates a new slog.Logger with identifier abbreviation.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or
// passed to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewCompactHandler(textHandler))
}

// NewJSONLogger creates a new slog.Logger with identifier abbreviation
// that outputs JSON format. Useful for structured log aggregation.
//
// Parameters:
//   - w: The io.Writer to write log output to
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger configured for JSON output.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewCompactHandler(jsonHandler))
}
