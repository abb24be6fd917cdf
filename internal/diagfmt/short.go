package diagfmt

import (
	"io"

	"linkdiag/internal/diag"
)

// Short writes one stable line per diagnostic; see diag.FormatShortDiagnostics.
func Short(w io.Writer, bag *diag.Bag, max int) error {
	items := bag.Items()
	out := diag.FormatShortDiagnostics(items[:limit(len(items), max)])
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
