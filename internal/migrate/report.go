package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/schemasync/internal/naming"
)

// Issue is one report line: a problem found while planning a table.
type Issue struct {
	Table    string
	Class    string
	Property string
	Message  string
}

func (i *Issue) String() string {
	switch {
	case i.Class != "" && i.Property != "":
		return fmt.Sprintf("%s.%s: %s", i.Class, i.Property, i.Message)
	case i.Table != "":
		return fmt.Sprintf("%s: %s", i.Table, i.Message)
	default:
		return i.Message
	}
}

// Report collects the issues of a plan. Errors mark schema parts left
// out of the plan; warnings do not.
type Report struct {
	Errors   []*Issue
	Warnings []*Issue
}

// HasErrors returns true if there are any errors
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the report.
func (r *Report) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.String())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.String())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *Report) addError(table string, err error) {
	issue := &Issue{Table: table, Message: err.Error()}
	var ue *naming.UnresolvableReferenceError
	if errors.As(err, &ue) && ue.Property != "" {
		issue.Class, issue.Property = ue.Class, ue.Property
		issue.Message = fmt.Sprintf("reference to %q has no table, foreign key skipped", ue.Target)
		if ue.Err != nil {
			issue.Message += ": " + ue.Err.Error()
		}
	}
	r.Errors = append(r.Errors, issue)
}

func (r *Report) addWarning(table, format string, args ...any) {
	r.Warnings = append(r.Warnings, &Issue{Table: table, Message: fmt.Sprintf(format, args...)})
}
