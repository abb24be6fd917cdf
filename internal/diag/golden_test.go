package diag

import (
	"testing"
)

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		NewError("0711-317", "Undefined symbol: nofun()").WithOrigin("./build/link.log"),
		NewWarning("0711-224", "Duplicate symbol:\r\ndupe").WithOrigin("build/link.log"),
		NewLowWarning("0711-345", "Use the -bloadmap option."),
	}

	expected := "error 0711-317 build/link.log:0 Undefined symbol: nofun()\n" +
		"normal 0711-224 build/link.log:0 Duplicate symbol: dupe\n" +
		"low 0711-345 -:0 Use the -bloadmap option."

	if got := FormatShortDiagnostics(diags); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnosticsEmpty(t *testing.T) {
	if got := FormatShortDiagnostics(nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
