package diag

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation intended for CLI short output and golden files:
//
//	<label> <category> <origin>:<line> <message>
//
// Entries keep the order of diags; callers sort the bag first. An empty
// origin is rendered as the file name.
func FormatShortDiagnostics(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}

	var b strings.Builder
	for i, d := range diags {
		where := d.Origin
		if where == "" {
			where = d.FileName
		}
		fmt.Fprintf(&b, "%s %s %s:%d %s", d.Severity.Label(), d.Category, normalizePath(where), d.LineStart, sanitizeMessage(d.Message))
		if i < len(diags)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
