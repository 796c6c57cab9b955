package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// maxCandidates bounds how many ranked recipients are shown per
	// payment. Zero means show all.
	maxCandidates int

	// verbose enables per-candidate route listings.
	verbose bool

	// printer renders amounts with locale-aware digit grouping.
	printer *message.Printer
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithMaxCandidates limits how many candidates are printed per payment.
func WithMaxCandidates(n int) TextWriterOption {
	return func(w *TextWriter) {
		w.maxCandidates = n
	}
}

// WithVerbose enables verbose output with candidate routes.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter:    newBaseWriter(output),
		maxCandidates: 3,
		verbose:       false,
		printer:       message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in plain text format.
func (w *TextWriter) Write(report *Report) (int, error) {
	var sb strings.Builder

	sb.WriteString("CLTV Surveillance Report\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Generated:    %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Block height: %d\n", report.BlockHeight))
	sb.WriteString(fmt.Sprintf("Network:      %d nodes, %d channels\n", report.NodeCount, report.ChannelCount))
	sb.WriteString(fmt.Sprintf("Observers:    %s\n", strings.Join(report.Observers, ", ")))
	sb.WriteString(fmt.Sprintf("Observations: %d\n", report.Observations))
	sb.WriteString(fmt.Sprintf("Payments:     %d\n", len(report.Payments)))
	sb.WriteString("\n")

	for _, payment := range report.Payments {
		w.writePayment(&sb, payment)
	}

	if len(report.Payments) == 0 {
		sb.WriteString("No payments correlated.\n")
	}

	return io.WriteString(w.output, sb.String())
}

// writePayment writes one payment section.
func (w *TextWriter) writePayment(sb *strings.Builder, payment PaymentResult) {
	sb.WriteString(fmt.Sprintf("Payment %s\n", abbreviateHash(payment.PaymentHash)))
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("  Amount:      %s msat\n", w.printer.Sprintf("%d", payment.Amount)))
	sb.WriteString(fmt.Sprintf("  CLTV expiry: %d\n", payment.CLTVExpiry))
	sb.WriteString(fmt.Sprintf("  Observed by: %s\n", payment.ObservedBy))

	candidates := payment.Candidates
	if w.maxCandidates > 0 && len(candidates) > w.maxCandidates {
		candidates = candidates[:w.maxCandidates]
	}

	for i, candidate := range candidates {
		sb.WriteString(fmt.Sprintf("  #%d %s (confidence %.3f)\n", i+1, candidate.Alias, candidate.Confidence))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("     route: %s\n", strings.Join(candidate.Route, " -> ")))
		}
	}
	sb.WriteString("\n")
}

// abbreviateHash shortens a payment hash for terminal display.
// Short identifiers are returned unchanged.
func abbreviateHash(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:8] + ".." + hash[len(hash)-8:]
}
