package diag

type dedupKey struct {
	sev       Severity
	category  string
	msg       string
	file      string
	lineStart int
	lineEnd   int
}

func keyOf(d Diagnostic) dedupKey {
	return dedupKey{
		sev:       d.Severity,
		category:  d.Category,
		msg:       d.Message,
		file:      d.FileName,
		lineStart: d.LineStart,
		lineEnd:   d.LineEnd,
	}
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same severity, category, message, file and line range.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := keyOf(d)
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
