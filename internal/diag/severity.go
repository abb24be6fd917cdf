package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevLowWarning covers low-priority notices and informational guidance.
	SevLowWarning Severity = iota
	// SevNormalWarning is for regular warnings.
	SevNormalWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevLowWarning:
		return "WARNING_LOW"
	case SevNormalWarning:
		return "WARNING_NORMAL"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the short lower-case form used in compact output.
func (s Severity) Label() string {
	switch s {
	case SevLowWarning:
		return "low"
	case SevNormalWarning:
		return "normal"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Severities lists all levels from least to most important.
func Severities() []Severity {
	return []Severity{SevLowWarning, SevNormalWarning, SevError}
}

// ParseSeverity accepts both String and Label forms, case-insensitively.
// "warning" maps to normal and "info" to low since there is no separate
// informational level.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "warning_low", "info":
		return SevLowWarning, nil
	case "normal", "warning_normal", "warning":
		return SevNormalWarning, nil
	case "error", "high", "warning_high":
		return SevError, nil
	default:
		return SevLowWarning, fmt.Errorf("invalid severity: %q (expected: low|normal|error)", s)
	}
}
