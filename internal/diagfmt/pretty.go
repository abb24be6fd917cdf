package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"linkdiag/internal/diag"
	"linkdiag/internal/source"
)

type palette struct {
	sev      map[diag.Severity]*color.Color
	other    *color.Color // severities missing from sev
	origin   *color.Color
	category *color.Color
	summary  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:         color.New(color.FgRed, color.Bold),
			diag.SevNormalWarning: color.New(color.FgYellow, color.Bold),
			diag.SevLowWarning:    color.New(color.FgCyan),
		},
		other:    color.New(color.FgMagenta),
		origin:   color.New(color.Bold),
		category: color.New(color.Faint),
		summary:  color.New(color.Bold),
	}
	all := []*color.Color{p.other, p.origin, p.category, p.summary}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.other
}

// Pretty prints diagnostics in a human-readable form, one per line:
//
//	<origin>: <SEVERITY> <category>: <message>
//
// Items are printed in bag order. With Width set, messages are cut to fit.
func Pretty(w io.Writer, bag *diag.Bag, logs *source.LogSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	items := bag.Items()
	n := limit(len(items), opts.Max)

	for _, d := range items[:n] {
		origin := displayOrigin(d.Origin, logs, opts.PathMode)
		sev := d.Severity.String()

		prefix := ""
		if origin != "" {
			prefix = origin + ": "
		}
		prefix += sev + " " + d.Category + ": "

		msg := d.Message
		if opts.Width > 0 {
			if avail := opts.Width - runewidth.StringWidth(prefix); avail > 0 {
				msg = runewidth.Truncate(msg, avail, "...")
			}
		}

		var sb strings.Builder
		if origin != "" {
			sb.WriteString(p.origin.Sprint(origin))
			sb.WriteString(": ")
		}
		sb.WriteString(p.severity(d.Severity).Sprint(sev))
		sb.WriteString(" ")
		sb.WriteString(p.category.Sprint(d.Category))
		sb.WriteString(": ")
		sb.WriteString(msg)
		sb.WriteString("\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}

	if hidden := len(items) - n; hidden > 0 {
		if _, err := fmt.Fprintf(w, "... and %d more (raise --max-diagnostics to see them)\n", hidden); err != nil {
			return err
		}
	}

	if opts.ShowSummary {
		if _, err := fmt.Fprintln(w, p.summary.Sprint(Summary(bag.Counts()))); err != nil {
			return err
		}
	}
	return nil
}

// Summary renders per-severity totals, e.g. "2 errors, 1 warning, 0 low".
func Summary(c diag.Counts) string {
	return fmt.Sprintf("%s, %s, %d low", plural(c.Errors, "error"), plural(c.Warnings, "warning"), c.Low)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
