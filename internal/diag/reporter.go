package diag

// Reporter is the minimal contract for receiving diagnostics from parsers.
// Implementations: BagReporter (stores into a Bag), DedupReporter, ReporterFunc.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) {
	if f != nil {
		f(d)
	}
}

// BagReporter - адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// Collect gathers everything reported through the returned Reporter into a
// slice, preserving report order.
func Collect() (Reporter, *[]Diagnostic) {
	out := make([]Diagnostic, 0)
	return ReporterFunc(func(d Diagnostic) {
		out = append(out, d)
	}), &out
}
