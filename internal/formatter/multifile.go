package formatter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tordrt/schemasync/internal/migrate"
)

const (
	FormatSQL      = "sql"
	FormatMarkdown = "markdown"
)

// MultiFileFormatter writes one numbered migration file per statement
// plus an overview, so that the files run in lexical order.
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "sql" or "markdown", the overview format
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the plan to the output directory
func (f *MultiFileFormatter) Format(p *migrate.Plan) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		files[i] = StatementFileName(i, s)
		if err := f.writeStatementFile(files[i], s); err != nil {
			return fmt.Errorf("failed to write statement file for %s: %w", s.Table, err)
		}
	}

	if err := f.writeOverview(p, files); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}
	return nil
}

// StatementFileName returns the file of the i-th statement of a plan,
// e.g. "002_alter_orders.sql".
func StatementFileName(i int, s migrate.Statement) string {
	return fmt.Sprintf("%03d_%s_%s.sql", i+1, s.Kind, s.Table)
}

func (f *MultiFileFormatter) writeStatementFile(name string, s migrate.Statement) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()
	return writeStatement(file, s)
}

func (f *MultiFileFormatter) writeOverview(p *migrate.Plan, files []string) error {
	ext := ".sql"
	if f.OutputFormat == FormatMarkdown {
		ext = ".md"
	}
	file, err := os.Create(filepath.Join(f.OutputDir, "_overview"+ext))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == FormatMarkdown {
		md := NewMarkdownFormatter(file)
		_, _ = fmt.Fprintf(file, "# Schema Plan Overview\n\n")
		md.FormatReport(p.Report)
		if p.Empty() {
			_, err = fmt.Fprintln(file, "Schema is up to date.")
			return err
		}
		_, _ = fmt.Fprintf(file, "## Files\n\nRun in order:\n\n")
		for i, name := range files {
			_, _ = fmt.Fprintf(file, "%d. `%s` (%s %s)\n", i+1, name, p.Statements[i].Kind, p.Statements[i].Table)
		}
		return nil
	}

	if err := writeReportComments(file, p.Report); err != nil {
		return err
	}
	if p.Empty() {
		_, err = fmt.Fprintln(file, "-- schema is up to date")
		return err
	}
	for _, name := range files {
		// MySQL client include syntax
		_, _ = fmt.Fprintf(file, "source %s;\n", name)
	}
	return nil
}
