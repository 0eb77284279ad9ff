package batch

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/wippyai/wasmlang/classify"
)

var sampleRecords = []Record{
	{
		Path:     "mods/a.wasm",
		Hash:     "00112233aabbccdd",
		Size:     120,
		Label:    classify.Rust,
		Rule:     "rust-bindgen",
		Evidence: `export_name contains "wbindgen": __wbindgen_malloc`,
		Status:   "ok",
	},
	{
		Path:   "mods/b.wasm",
		Hash:   "ffffffffffffffff",
		Size:   42,
		Label:  classify.Unknown,
		Status: "invalid_magic",
	},
	{
		Path:  "mods/c.wasm",
		Label: classify.Unknown,
		Err:   errors.New("permission denied"),
	},
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf)
	for _, r := range sampleRecords {
		if err := w.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	want := "Rust\trust-bindgen\tmods/a.wasm\n" +
		"Unknown\t-\tmods/b.wasm\n" +
		"Unknown\t-\tmods/c.wasm\tpermission denied\n"
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	for _, r := range sampleRecords {
		if err := w.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(rows) != len(sampleRecords)+1 {
		t.Fatalf("rows = %d, want %d", len(rows), len(sampleRecords)+1)
	}
	if strings.Join(rows[0], ",") != strings.Join(CSVHeader, ",") {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "mods/a.wasm" || rows[1][2] != "120" || rows[1][3] != "Rust" || rows[1][6] != sampleRecords[0].Evidence {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[3][7] != "permission denied" {
		t.Errorf("row 3 error = %q", rows[3][7])
	}
}

func TestCSVWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != strings.Join(CSVHeader, ",") {
		t.Errorf("empty output = %q, want header only", buf.String())
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	for _, r := range sampleRecords {
		if err := w.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(sampleRecords) {
		t.Fatalf("lines = %d, want %d", len(lines), len(sampleRecords))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first["label"] != "Rust" || first["rule"] != "rust-bindgen" || first["size"] != float64(120) {
		t.Errorf("first = %v", first)
	}
	if _, ok := first["error"]; ok {
		t.Error("error key present on a successful record")
	}

	var last map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatal(err)
	}
	if last["error"] != "permission denied" {
		t.Errorf("last = %v", last)
	}
}

func TestNewRecordWriter(t *testing.T) {
	for _, f := range []string{FormatText, FormatCSV, FormatJSON} {
		if _, err := NewRecordWriter(&bytes.Buffer{}, f); err != nil {
			t.Errorf("NewRecordWriter(%q): %v", f, err)
		}
	}
	if _, err := NewRecordWriter(&bytes.Buffer{}, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTally(t *testing.T) {
	var tally Tally
	if tally.Unclassified() != 0 || tally.Total() != 0 {
		t.Error("zero tally should be empty")
	}

	for _, l := range []classify.Label{
		classify.Rust, classify.Rust, classify.Go, classify.Unknown, classify.UnknownCompressed,
	} {
		tally.Add(Record{Label: l})
	}
	tally.Add(Record{Label: classify.Unknown, Err: errors.New("x")})

	if tally.Total() != 6 {
		t.Errorf("Total = %d, want 6", tally.Total())
	}
	if tally.Count(classify.Rust) != 2 || tally.Count(classify.Unknown) != 2 || tally.Count(classify.Emscripten) != 0 {
		t.Errorf("counts wrong: rust=%d unknown=%d", tally.Count(classify.Rust), tally.Count(classify.Unknown))
	}
	if tally.Failed() != 1 {
		t.Errorf("Failed = %d, want 1", tally.Failed())
	}
	if got := tally.Unclassified(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Unclassified = %v, want 0.5", got)
	}
}

func TestWriteSummary(t *testing.T) {
	var tally Tally
	tally.Add(Record{Label: classify.Rust})
	tally.Add(Record{Label: classify.Go})
	tally.Add(Record{Label: classify.Go})
	tally.Add(Record{Label: classify.Unknown})

	var buf bytes.Buffer
	if err := WriteSummary(&buf, &tally); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i, l := range classify.Labels() {
		if !strings.HasPrefix(lines[i], string(l)+" ") {
			t.Errorf("line %d = %q, want %s first", i, lines[i], l)
		}
	}
	for _, want := range []string{"Go                 2", "Total              4", "Unclassified: 25.00%"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Unreadable") {
		t.Error("summary reports unreadable files when there were none")
	}
}
