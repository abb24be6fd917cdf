package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"linkdiag/internal/diag"
	"linkdiag/internal/source"
)

func sampleBag(logs *source.LogSet) *diag.Bag {
	id := logs.Add("build/link.log", []byte("..."), source.LogVirtual)
	origin := logs.Get(id).Path

	bag := diag.NewBag(0)
	bag.Add(diag.NewError("0711-317", "Undefined symbol: .nofun()").WithOrigin(origin))
	bag.Add(diag.NewWarning("0711-224", "Duplicate symbol: .dupe").WithOrigin(origin))
	bag.Add(diag.NewLowWarning("0706-012", "The -9 flag is not recognized.").WithOrigin(origin))
	return bag
}

// TestJSONBasic checks the JSON shape of a single diagnostic.
func TestJSONBasic(t *testing.T) {
	logs := source.NewLogSet()
	bag := sampleBag(logs)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, logs, JSONOpts{IncludeOrigin: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Fatalf("Expected 3 diagnostics, got count=%d len=%d", output.Count, len(output.Diagnostics))
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" {
		t.Errorf("Expected severity=ERROR, got %s", d.Severity)
	}
	if d.Category != "0711-317" {
		t.Errorf("Expected category=0711-317, got %s", d.Category)
	}
	if d.Message != "Undefined symbol: .nofun()" {
		t.Errorf("Unexpected message %q", d.Message)
	}
	if d.FileName != "-" || d.LineStart != 0 || d.LineEnd != 0 {
		t.Errorf("Unexpected location %s:%d-%d", d.FileName, d.LineStart, d.LineEnd)
	}
	if d.Origin != "build/link.log" {
		t.Errorf("Expected origin=build/link.log, got %q", d.Origin)
	}
	if output.Diagnostics[2].Severity != "WARNING_LOW" {
		t.Errorf("Expected WARNING_LOW, got %s", output.Diagnostics[2].Severity)
	}
}

// TestJSONRawKeys pins the wire field names.
func TestJSONRawKeys(t *testing.T) {
	logs := source.NewLogSet()
	bag := sampleBag(logs)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, logs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	first := raw["diagnostics"].([]any)[0].(map[string]any)
	for _, key := range []string{"severity", "category", "message", "line_start", "line_end", "file_name"} {
		if _, ok := first[key]; !ok {
			t.Errorf("missing key %q in %v", key, first)
		}
	}
	if _, ok := first["origin"]; ok {
		t.Error("origin should be omitted unless requested")
	}
}

func TestJSONMaxAndEmpty(t *testing.T) {
	logs := source.NewLogSet()
	bag := sampleBag(logs)

	out := BuildDiagnosticsOutput(bag, logs, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Errorf("Max=2: count=%d", out.Count)
	}
	if bag.Len() != 3 {
		t.Error("Max must not trim the bag")
	}

	var buf bytes.Buffer
	if err := JSON(&buf, diag.NewBag(0), logs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"diagnostics": []`)) {
		t.Errorf("empty output should have an empty array, got %s", buf.String())
	}
}
