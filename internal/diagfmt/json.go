package diagfmt

import (
	"encoding/json"
	"io"

	"linkdiag/internal/diag"
	"linkdiag/internal/source"
)

// DiagnosticJSON is a diagnostic in JSON form.
type DiagnosticJSON struct {
	Severity  string `json:"severity"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
	FileName  string `json:"file_name"`
	Origin    string `json:"origin,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnosticsOutput builds the JSON structure without serializing it.
func BuildDiagnosticsOutput(bag *diag.Bag, logs *source.LogSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	n := limit(len(items), opts.Max)

	diagnostics := make([]DiagnosticJSON, 0, n)
	for _, d := range items[:n] {
		dj := DiagnosticJSON{
			Severity:  d.Severity.String(),
			Category:  d.Category,
			Message:   d.Message,
			LineStart: d.LineStart,
			LineEnd:   d.LineEnd,
			FileName:  d.FileName,
		}
		if opts.IncludeOrigin {
			dj.Origin = displayOrigin(d.Origin, logs, opts.PathMode)
		}
		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON writes diagnostics as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, logs *source.LogSet, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(bag, logs, opts)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
