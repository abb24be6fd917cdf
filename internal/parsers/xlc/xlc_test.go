package xlc_test

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"linkdiag/internal/diag"
	"linkdiag/internal/parsers"
	"linkdiag/internal/parsers/xlc"
)

func parse(text string) []diag.Diagnostic {
	v, err := parsers.Lookup(xlc.ID)
	if err != nil {
		panic(err)
	}
	return v.Parse(text)
}

func assertSingle(t *testing.T, input string, sev diag.Severity, category, msg string) {
	t.Helper()
	got := parse(input)
	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic for %q, got %d", input, len(got))
	}
	d := got[0]
	if d.Severity != sev {
		t.Errorf("severity = %s, want %s", d.Severity, sev)
	}
	if d.Category != category {
		t.Errorf("category = %q, want %q", d.Category, category)
	}
	if d.Message != msg {
		t.Errorf("message = %q, want %q", d.Message, msg)
	}
	if d.LineStart != 0 || d.LineEnd != 0 {
		t.Errorf("lines = %d/%d, want 0/0", d.LineStart, d.LineEnd)
	}
	if d.FileName != diag.NoFile {
		t.Errorf("file = %q, want %q", d.FileName, diag.NoFile)
	}
}

func TestParseLinkerError(t *testing.T) {
	assertSingle(t, "ld: 0711-317 ERROR: Undefined symbol: nofun()",
		diag.SevError, "0711-317", "Undefined symbol: nofun()")
}

func TestParseSevereError(t *testing.T) {
	assertSingle(t, "ld: 0711-634 SEVERE ERROR: EXEC binder commands nested too deeply.",
		diag.SevError, "0711-634", "EXEC binder commands nested too deeply.")
}

func TestParseLowWarning(t *testing.T) {
	assertSingle(t, "ld: 0706-012 The -9 flag is not recognized.",
		diag.SevLowWarning, "0706-012", "The -9 flag is not recognized.")
}

func TestParseWarning(t *testing.T) {
	assertSingle(t, "ld: 0711-224 WARNING: Duplicate symbol: dupe",
		diag.SevNormalWarning, "0711-224", "Duplicate symbol: dupe")
}

func TestParseInformation(t *testing.T) {
	assertSingle(t, "ld: 0711-345 Use the -bloadmap or -bnoquiet option to obtain more information.",
		diag.SevLowWarning, "0711-345", "Use the -bloadmap or -bnoquiet option to obtain more information.")
}

func TestParseLineTrimsMessage(t *testing.T) {
	d, ok := xlc.ParseLine("ld: 0711-224 WARNING:    Duplicate symbol: dupe   \t")
	if !ok {
		t.Fatalf("expected a diagnostic")
	}
	if d.Message != "Duplicate symbol: dupe" {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestParseLineRejects(t *testing.T) {
	lines := []string{
		"",
		"compiling foo.c",
		"ld:",
		"ld: ",
		"ld: the following line has no code",
		"ld: 0711 ERROR: missing dash",
		"ld: -317 ERROR: missing leading digits",
		"ld: 0711- ERROR: missing trailing digits",
		"ld: 0711-317",
		"ld: 0711-317   ",
		"ld: 0711-317 ERROR:",
		"ld: 0711-634 SEVERE ERROR:   ",
		"ld: 0711-317abc ERROR: glued suffix",
		" ld: 0711-317 ERROR: leading space",
		"xld: 0711-317 ERROR: other prefix",
		"LD: 0711-317 ERROR: upper case prefix",
	}
	for _, line := range lines {
		if d, ok := xlc.ParseLine(line); ok {
			t.Errorf("ParseLine(%q) produced %+v, want nothing", line, d)
		}
	}
}

func TestSeverityIsKeywordDriven(t *testing.T) {
	// The same code maps to different severities depending on the keyword only.
	tests := []struct {
		line string
		want diag.Severity
	}{
		{"ld: 0711-317 ERROR: x", diag.SevError},
		{"ld: 0711-317 SEVERE ERROR: x", diag.SevError},
		{"ld: 0711-317 WARNING: x", diag.SevNormalWarning},
		{"ld: 0711-317 x", diag.SevLowWarning},
		{"ld: 0711-317 Error occurred while reading file", diag.SevLowWarning},
	}
	for _, tt := range tests {
		d, ok := xlc.ParseLine(tt.line)
		if !ok {
			t.Fatalf("ParseLine(%q) produced nothing", tt.line)
		}
		if d.Severity != tt.want {
			t.Errorf("ParseLine(%q) severity = %s, want %s", tt.line, d.Severity, tt.want)
		}
		if d.Category != "0711-317" {
			t.Errorf("ParseLine(%q) category = %q", tt.line, d.Category)
		}
	}
}

func TestParseNoMatches(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"compiling foo.c\nlinking app\n",
		"\x00\xff\xfe garbage \x1b[31m",
	}
	for _, in := range inputs {
		got := parse(in)
		if got == nil {
			t.Fatalf("Parse(%q) returned nil, want empty slice", in)
		}
		if len(got) != 0 {
			t.Fatalf("Parse(%q) returned %d diagnostics", in, len(got))
		}
	}
}

func TestParseIgnoresUnrelatedLines(t *testing.T) {
	in := "compiling foo.c\nld: 0711-317 ERROR: Undefined symbol: nofun()\nlinking done\n"
	got := parse(in)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d", len(got))
	}
	if got[0].Category != "0711-317" {
		t.Fatalf("unexpected category %q", got[0].Category)
	}
}

func TestParsePreservesOrderAndIsIdempotent(t *testing.T) {
	in := strings.Join([]string{
		"ld: 0711-345 Use the -bloadmap option.",
		"noise",
		"ld: 0711-317 ERROR: Undefined symbol: a",
		"ld: 0711-224 WARNING: Duplicate symbol: b",
		"ld: 0711-317 ERROR: Undefined symbol: a",
	}, "\r\n")

	first := parse(in)
	second := parse(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Parse is not idempotent:\n%+v\n%+v", first, second)
	}

	want := []string{"0711-345", "0711-317", "0711-224", "0711-317"}
	if len(first) != len(want) {
		t.Fatalf("expected %d diagnostics, got %d", len(want), len(first))
	}
	for i, d := range first {
		if d.Category != want[i] {
			t.Fatalf("position %d: category %q, want %q", i, d.Category, want[i])
		}
	}
}

func TestParseFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/xlc-linker.txt")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	got := parse(string(data))
	want := []diag.Diagnostic{
		diag.NewError("0711-987", "Error occurred while reading file"),
		diag.NewError("0711-317", "Undefined symbol: .nofun()"),
		diag.NewWarning("0711-224", "Duplicate symbol: .dupe"),
		diag.NewLowWarning("0711-345", "Use the -bloadmap or -bnoquiet option to obtain more information."),
		diag.NewLowWarning("0706-012", "The -9 flag is not recognized."),
		diag.NewError("0711-634", "EXEC binder commands nested too deeply."),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected fixture diagnostics:\nwant: %+v\ngot:  %+v", want, got)
	}
	for _, d := range got {
		if !d.Valid() {
			t.Fatalf("invalid diagnostic produced: %+v", d)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	data, err := os.ReadFile("testdata/xlc-linker.txt")
	if err != nil {
		b.Fatalf("read fixture: %v", err)
	}
	text := strings.Repeat(string(data), 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = parse(text)
	}
}
