package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/schemasync/internal/migrate"
)

// MarkdownFormatter formats a plan as a markdown review document
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the plan in markdown format
func (f *MarkdownFormatter) Format(p *migrate.Plan) error {
	_, _ = fmt.Fprintln(f.writer, "# Schema Plan")
	_, _ = fmt.Fprintln(f.writer)
	if p.Dialect != "" {
		_, _ = fmt.Fprintf(f.writer, "Database: %s\n\n", p.Dialect)
	}

	f.FormatReport(p.Report)

	if p.Empty() {
		_, err := fmt.Fprintln(f.writer, "Schema is up to date.")
		return err
	}

	_, _ = fmt.Fprintln(f.writer, "## Statements")
	_, _ = fmt.Fprintln(f.writer)
	for i, s := range p.Statements {
		_, _ = fmt.Fprintf(f.writer, "### %d. %s `%s`\n\n", i+1, s.Kind, s.Table)
		_, _ = fmt.Fprintf(f.writer, "```sql\n%s;\n```\n\n", s.SQL)
	}
	return nil
}

// FormatReport writes the errors and warnings sections, nothing when the
// report is clean.
func (f *MarkdownFormatter) FormatReport(r *migrate.Report) {
	if r == nil {
		return
	}
	if r.HasErrors() {
		_, _ = fmt.Fprintln(f.writer, "## Errors")
		_, _ = fmt.Fprintln(f.writer)
		for _, e := range r.Errors {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", e)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
	if r.HasWarnings() {
		_, _ = fmt.Fprintln(f.writer, "## Warnings")
		_, _ = fmt.Fprintln(f.writer)
		for _, w := range r.Warnings {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", w)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}
