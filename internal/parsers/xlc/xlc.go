// Package xlc classifies diagnostics printed by the IBM XL C/C++ (AIX) linker.
//
// Recognized lines look like
//
//	ld: 0711-317 ERROR: Undefined symbol: nofun()
//	ld: 0711-634 SEVERE ERROR: EXEC binder commands nested too deeply.
//	ld: 0711-224 WARNING: Duplicate symbol: dupe
//	ld: 0706-012 The -9 flag is not recognized.
//
// Severity comes from the keyword after the message code only; the code is
// an opaque category. Lines without a keyword, informational guidance
// included, are low warnings.
package xlc

import (
	"regexp"
	"strings"

	"linkdiag/internal/diag"
)

const (
	ID   = "xlc-linker"
	Name = "IBM XL C/C++ Linker"
)

const prefix = "ld: "

type pattern struct {
	re  *regexp.Regexp
	sev diag.Severity
}

// Checked in order, first match wins. Group 1 is the code, group 2 the message.
var patterns = []pattern{
	{regexp.MustCompile(`^ld: (\d+-\d+)\s+SEVERE ERROR:\s*(.*)$`), diag.SevError},
	{regexp.MustCompile(`^ld: (\d+-\d+)\s+ERROR:\s*(.*)$`), diag.SevError},
	{regexp.MustCompile(`^ld: (\d+-\d+)\s+WARNING:\s*(.*)$`), diag.SevNormalWarning},
	{regexp.MustCompile(`^ld: (\d+-\d+)\s+(.*)$`), diag.SevLowWarning},
}

// ParseLine classifies a single line. It reports false when the line is
// not a linker diagnostic or carries no message text.
func ParseLine(line string) (diag.Diagnostic, bool) {
	if !strings.HasPrefix(line, prefix) {
		return diag.Diagnostic{}, false
	}
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		msg := strings.TrimSpace(m[2])
		if msg == "" {
			return diag.Diagnostic{}, false
		}
		return diag.New(p.sev, m[1], msg), true
	}
	return diag.Diagnostic{}, false
}
