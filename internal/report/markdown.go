package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown format.
// This format is designed for documentation, issue tracking, and any
// destination that renders Markdown.
type MarkdownWriter struct {
	baseWriter

	// maxCandidates bounds how many ranked recipients are listed per
	// payment. Zero means list all.
	maxCandidates int

	// printer renders amounts with locale-aware digit grouping.
	printer *message.Printer
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownMaxCandidates limits how many candidates appear per payment.
func WithMarkdownMaxCandidates(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.maxCandidates = n
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter:    newBaseWriter(output),
		maxCandidates: 5,
		printer:       message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writePayments(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("CLTV Surveillance Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Block Height", strconv.FormatUint(uint64(report.BlockHeight), 10)},
			{"Nodes", strconv.Itoa(report.NodeCount)},
			{"Channels", strconv.Itoa(report.ChannelCount)},
			{"Observers", strings.Join(report.Observers, ", ")},
			{"Observations", strconv.Itoa(report.Observations)},
			{"Correlated Payments", strconv.Itoa(len(report.Payments))},
		},
	})
	md.PlainText("")

	if len(report.Payments) > 0 {
		md.Warningf(
			"%d payment(s) were correlated across observers. The candidates below are heuristic guesses, not proof.",
			len(report.Payments),
		)
	} else {
		md.Note("No payments were correlated during this run.")
	}
	md.PlainText("")
}

// writePayments writes one section per correlated payment.
func (w *MarkdownWriter) writePayments(md *markdown.Markdown, report *Report) {
	if len(report.Payments) == 0 {
		return
	}

	md.H2("Correlated Payments")
	md.PlainText("")

	for _, payment := range report.Payments {
		md.H3("Payment `" + abbreviateHash(payment.PaymentHash) + "`")
		md.PlainText("")
		md.BulletList(
			"Amount: "+w.printer.Sprintf("%d", payment.Amount)+" msat",
			"CLTV expiry: "+strconv.FormatUint(uint64(payment.CLTVExpiry), 10),
			"Observed by: "+payment.ObservedBy,
		)
		md.PlainText("")

		candidates := payment.Candidates
		if w.maxCandidates > 0 && len(candidates) > w.maxCandidates {
			candidates = candidates[:w.maxCandidates]
		}

		if len(candidates) == 0 {
			md.PlainText("No candidate recipients within the timelock budget.")
			md.PlainText("")
			continue
		}

		rows := make([][]string, 0, len(candidates))
		for i, candidate := range candidates {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				candidate.Alias,
				fmt.Sprintf("%.3f", candidate.Confidence),
				strings.Join(candidate.Route, " → "),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Rank", "Recipient", "Confidence", "Suspected Route"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}
