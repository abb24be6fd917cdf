// Package parsers holds the closed table of tool output parsers.
//
// Every variant is a pure function from one line of tool output to an
// optional diagnostic. The table is fixed at compile time; there is no
// runtime registration and no shared state between calls.
package parsers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"linkdiag/internal/diag"
	"linkdiag/internal/parsers/xlc"
	"linkdiag/internal/source"
)

// Default is the parser used when none is configured.
const Default = xlc.ID

// Variant describes one parser in the table.
type Variant struct {
	ID        string
	Name      string
	ParseLine func(line string) (diag.Diagnostic, bool)
}

var table = []Variant{
	{ID: xlc.ID, Name: xlc.Name, ParseLine: xlc.ParseLine},
}

// Variants returns the table in declaration order.
func Variants() []Variant {
	out := make([]Variant, len(table))
	copy(out, table)
	return out
}

// IDs returns the sorted parser ids.
func IDs() []string {
	ids := make([]string, 0, len(table))
	for _, v := range table {
		ids = append(ids, v.ID)
	}
	sort.Strings(ids)
	return ids
}

// Lookup returns the variant registered under id.
func Lookup(id string) (Variant, error) {
	for _, v := range table {
		if v.ID == id {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown parser: %q (known: %s)", id, strings.Join(IDs(), ", "))
}

// Parse classifies every line of text, preserving input order.
func (v Variant) Parse(text string) []diag.Diagnostic {
	rep, out := diag.Collect()
	// reading from a string cannot fail
	_ = v.Scan(strings.NewReader(text), rep)
	return *out
}

// Scan streams r and reports every diagnostic to rep. Only read errors are returned.
func (v Variant) Scan(r io.Reader, rep diag.Reporter) error {
	return source.EachLine(r, func(line string) {
		if d, ok := v.ParseLine(line); ok {
			rep.Report(d)
		}
	})
}
