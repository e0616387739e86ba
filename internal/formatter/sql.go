package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/schemasync/internal/migrate"
)

// SQLFormatter writes a plan as an executable SQL script
type SQLFormatter struct {
	writer io.Writer
}

// NewSQLFormatter creates a new SQL formatter
func NewSQLFormatter(w io.Writer) *SQLFormatter {
	return &SQLFormatter{writer: w}
}

// Format writes the report as comments followed by one statement per block
func (f *SQLFormatter) Format(p *migrate.Plan) error {
	if err := writeReportComments(f.writer, p.Report); err != nil {
		return err
	}
	if p.Empty() {
		_, err := fmt.Fprintln(f.writer, "-- schema is up to date")
		return err
	}
	for i, s := range p.Statements {
		if i > 0 {
			if _, err := fmt.Fprintln(f.writer); err != nil {
				return err
			}
		}
		if err := writeStatement(f.writer, s); err != nil {
			return err
		}
	}
	return nil
}

func writeStatement(w io.Writer, s migrate.Statement) error {
	_, err := fmt.Fprintf(w, "-- %s %s\n%s;\n", s.Kind, s.Table, s.SQL)
	return err
}

func writeReportComments(w io.Writer, r *migrate.Report) error {
	if r == nil || !r.HasErrors() && !r.HasWarnings() {
		return nil
	}
	var sb strings.Builder
	for _, e := range r.Errors {
		sb.WriteString("-- error: " + e.String() + "\n")
	}
	for _, warn := range r.Warnings {
		sb.WriteString("-- warning: " + warn.String() + "\n")
	}
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
