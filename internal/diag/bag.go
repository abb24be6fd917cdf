package diag

import (
	"sort"
)

// Bag is the aggregate collection of diagnostics gathered across parsers and
// logs. A max of zero or less means the bag is unbounded.
type Bag struct {
	items []Diagnostic
	max   int
}

func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 1024 {
		capHint = 16
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// Full reports whether further Add calls will be refused.
func (b *Bag) Full() bool {
	return b.max > 0 && len(b.items) >= b.max
}

// HasErrors returns true if at least one diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Counts holds per-severity totals.
type Counts struct {
	Errors   int
	Warnings int
	Low      int
}

// Total returns the number of counted diagnostics.
func (c Counts) Total() int {
	return c.Errors + c.Warnings + c.Low
}

func (b *Bag) Counts() Counts {
	var c Counts
	for i := range b.items {
		switch b.items[i].Severity {
		case SevError:
			c.Errors++
		case SevNormalWarning:
			c.Warnings++
		default:
			c.Low++
		}
	}
	return c
}

// Merge appends diagnostics from other, growing max when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by origin, severity (desc), category and message
// so output is deterministic.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Origin != dj.Origin {
			return di.Origin < dj.Origin
		}
		// Error > Normal > Low
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.Category != dj.Category {
			return di.Category < dj.Category
		}
		return di.Message < dj.Message
	})
}

// Dedup drops repeated diagnostics, keeping the first occurrence. Origin is
// not part of the key: the same finding reported by two logs collapses.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := keyOf(d)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		newitems = append(newitems, d)
	}
	b.items = newitems
}

// Filter keeps only diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	newitems := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			newitems = append(newitems, d)
		}
	}
	b.items = newitems
}

// FilterMinSeverity drops everything below min.
func (b *Bag) FilterMinSeverity(min Severity) {
	b.Filter(func(d Diagnostic) bool {
		return d.Severity >= min
	})
}

// Transform replaces every diagnostic with fn(d).
func (b *Bag) Transform(fn func(Diagnostic) Diagnostic) {
	for i := range b.items {
		b.items[i] = fn(b.items[i])
	}
}
