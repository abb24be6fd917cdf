package diag

// New builds a link-phase diagnostic: no source file and no line range.
func New(sev Severity, category, msg string) Diagnostic {
	return Diagnostic{
		Severity:  sev,
		Category:  category,
		Message:   msg,
		LineStart: 0,
		LineEnd:   0,
		FileName:  NoFile,
	}
}

func NewError(category, msg string) Diagnostic {
	return New(SevError, category, msg)
}

func NewWarning(category, msg string) Diagnostic {
	return New(SevNormalWarning, category, msg)
}

func NewLowWarning(category, msg string) Diagnostic {
	return New(SevLowWarning, category, msg)
}

// WithOrigin returns a copy of d attributed to the given log.
func (d Diagnostic) WithOrigin(origin string) Diagnostic {
	d.Origin = origin
	return d
}

// WithSeverity returns a copy of d with a different severity.
func (d Diagnostic) WithSeverity(sev Severity) Diagnostic {
	d.Severity = sev
	return d
}
