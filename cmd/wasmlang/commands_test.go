package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/wasmlang/wasm"
	"github.com/wippyai/wasmlang/wasm/wasmtest"
)

// isolate keeps the user's config directory and environment out of a test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{"LOG_LEVEL", "CATALOG", "FORMAT", "EXT", "WORKERS"} {
		t.Setenv(envPrefix+"_"+key, "")
		os.Unsetenv(envPrefix + "_" + key)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errb bytes.Buffer
	root := newRootCmd(newApp())
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errb.String(), err
}

func writeModule(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// corpus writes one module per label into a fresh directory.
func corpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeModule(t, dir, "emcc.wasm", wasmtest.New().ImportFunc("env", "emscripten_memcpy_big").Bytes())
	writeModule(t, dir, "tinygo.wasm", wasmtest.New().ImportFunc("gojs", "runtime.wasmExit").Bytes())
	writeModule(t, dir, "as.wasm", wasmtest.New().ImportFunc("env", "abort").ExportFuncs("__new", "__pin").Bytes())
	writeModule(t, dir, "bindgen.wasm", wasmtest.New().ImportFunc("wbg", "__wbindgen_throw").Bytes())
	writeModule(t, dir, "plain.wasm", wasmtest.New().ExportFunc("add").Bytes())
	writeModule(t, dir, "notes.txt", []byte("not a module"))
	return dir
}

func TestClassifyText(t *testing.T) {
	isolate(t)
	dir := corpus(t)

	out, _, err := execute(t, "classify", dir)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	want := map[string]string{
		"emcc.wasm":    "Emscripten",
		"tinygo.wasm":  "Go",
		"as.wasm":      "AssemblyScript",
		"bindgen.wasm": "Rust",
		"plain.wasm":   "Unknown",
	}
	got := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		got[filepath.Base(fields[2])] = fields[0]
	}
	for name, label := range want {
		if got[name] != label {
			t.Errorf("%s: label = %q, want %q", name, got[name], label)
		}
	}
	if _, ok := got["notes.txt"]; ok {
		t.Error("notes.txt picked up despite --ext default")
	}

	if !strings.Contains(out, "Total              5") {
		t.Errorf("summary missing total:\n%s", out)
	}
	if !strings.Contains(out, "Unclassified: 20.00%") {
		t.Errorf("summary missing percentage:\n%s", out)
	}
}

func TestClassifyJSONSummaryOnStderr(t *testing.T) {
	isolate(t)
	dir := corpus(t)

	out, errOut, err := execute(t, "classify", "--format", "json", filepath.Join(dir, "emcc.wasm"), filepath.Join(dir, "notes.txt"))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d JSON lines, want 2:\n%s", len(lines), out)
	}
	for _, line := range lines {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Errorf("invalid JSON line %q: %v", line, err)
		}
	}
	if strings.Contains(out, "Unclassified") {
		t.Error("summary leaked into the JSON stream")
	}
	if !strings.Contains(errOut, "Unclassified: 50.00%") {
		t.Errorf("stderr = %q, want summary", errOut)
	}
}

func TestClassifyNoSummary(t *testing.T) {
	isolate(t)
	dir := corpus(t)

	out, _, err := execute(t, "classify", "--summary=false", filepath.Join(dir, "plain.wasm"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Unclassified") {
		t.Errorf("summary printed with --summary=false:\n%s", out)
	}
	if !strings.HasPrefix(out, "Unknown\t-\t") {
		t.Errorf("out = %q", out)
	}
}

func TestClassifyMissingPath(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "classify", filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestClassifyCustomCatalog(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeModule(t, dir, "m.wasm", wasmtest.New().ImportFunc("acme", "boot").Bytes())
	cat := writeModule(t, dir, "acme.yaml", []byte(`version: 1
rules:
  - id: acme
    label: Go
    markers:
      - {where: import_module, match: equals, value: acme}
`))

	out, _, err := execute(t, "classify", "--catalog", cat, "--summary=false", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Go\tacme\t") {
		t.Errorf("out = %q, want Go by rule acme", out)
	}
}

func TestInspect(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeModule(t, dir, "app.wasm", wasmtest.New().
		ImportFunc("wbg", "__wbindgen_throw").
		ExportFuncs("greet").
		Custom(wasm.CustomSectionProducers, wasmtest.Producers(wasmtest.Language("Rust", ""))).
		Bytes())

	out, _, err := execute(t, "inspect", "--validate", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Rust", "rust-bindgen", "wbg.__wbindgen_throw", "language:", "wazero", "ok, 1 imported and 1 exported"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectCompressed(t *testing.T) {
	isolate(t)
	path := writeModule(t, t.TempDir(), "app.wasm.gz", []byte{0x1f, 0x8b, 0x08, 0, 0, 0, 0, 0, 0, 0xff, 0x03, 0x00})

	out, _, err := execute(t, "inspect", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"UnknownCompressed", "invalid_magic", "gzip"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectMissingFile(t *testing.T) {
	isolate(t)
	if _, _, err := execute(t, "inspect", filepath.Join(t.TempDir(), "gone.wasm")); err == nil {
		t.Fatal("expected error")
	}
}

func TestCatalogShow(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "catalog", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"version: 1", "id: emscripten", "id: rust"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog show missing %q", want)
		}
	}
}

func TestCatalogCheck(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	good := writeModule(t, dir, "good.toml", []byte(`version = 1

[[rules]]
id = "acme"
label = "Go"

[[rules.markers]]
where = "import_module"
match = "equals"
value = "acme"
`))
	bad := writeModule(t, dir, "bad.yaml", []byte(`version: 1
rules:
  - id: acme
    label: Unknown
    markers:
      - {where: import_module, match: equals, value: acme}
`))

	out, _, err := execute(t, "catalog", "check", good)
	if err != nil {
		t.Fatalf("check good: %v", err)
	}
	if !strings.Contains(out, "1 rules, 1 markers") {
		t.Errorf("out = %q", out)
	}

	if _, _, err := execute(t, "catalog", "check", bad); err == nil {
		t.Error("fallback label accepted as a rule label")
	}
}

func TestCatalogSchema(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "catalog", "schema")
	if err != nil {
		t.Fatal(err)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if _, ok := schema["properties"]; !ok {
		t.Errorf("schema has no properties: %v", schema)
	}
}
