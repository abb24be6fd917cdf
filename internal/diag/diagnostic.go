package diag

// NoFile is the file name of diagnostics that are not attributable to a
// compiled unit, e.g. everything reported during the link step.
const NoFile = "-"

// Diagnostic is a single normalized finding.
type Diagnostic struct {
	Severity  Severity
	Category  string
	Message   string
	LineStart int
	LineEnd   int
	FileName  string
	// Origin is the log the diagnostic was read from. Parsers leave it empty.
	Origin string
}

// Valid reports whether the diagnostic carries a category and a message.
func (d Diagnostic) Valid() bool {
	return d.Category != "" && d.Message != ""
}
