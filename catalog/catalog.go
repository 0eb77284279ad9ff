package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasmlang/errors"
)

// SchemaVersion is the only catalog format version understood.
const SchemaVersion = 1

// Where names the part of a module a marker looks at.
type Where string

const (
	WhereImportModule  Where = "import_module"
	WhereImportName    Where = "import_name"
	WhereExportName    Where = "export_name"
	WhereCustomName    Where = "custom_name"
	WhereCustomPayload Where = "custom_payload"
	WhereProducer      Where = "producer"
	WhereFunctionName  Where = "function_name"
)

// Match names how a marker compares its value to a symbol.
type Match string

const (
	MatchEquals      Match = "equals"
	MatchPrefix      Match = "prefix"
	MatchSuffix      Match = "suffix"
	MatchContains    Match = "contains"
	MatchRegex       Match = "regex"
	MatchRustMangled Match = "rust_mangled" // value ignored
)

// Catalog is a set of toolchain signature rules.
type Catalog struct {
	Version int    `yaml:"version" toml:"version" json:"version" jsonschema:"enum=1"`
	Rules   []Rule `yaml:"rules" toml:"rules" json:"rules"`
}

// Rule assigns Label to a module when any of its markers matches.
type Rule struct {
	ID      string   `yaml:"id" toml:"id" json:"id" jsonschema:"minLength=1"`
	Label   string   `yaml:"label" toml:"label" json:"label" jsonschema:"enum=Emscripten,enum=Go,enum=AssemblyScript,enum=Rust"`
	Markers []Marker `yaml:"markers" toml:"markers" json:"markers" jsonschema:"minItems=1"`
}

// Marker is one piece of evidence a rule looks for.
//
// Module narrows import_name markers to imports from that module. Section
// narrows custom_payload markers to sections with that name. Field narrows
// producer markers to one producers field (language, processed-by, sdk).
type Marker struct {
	Where   Where  `yaml:"where" toml:"where" json:"where" jsonschema:"enum=import_module,enum=import_name,enum=export_name,enum=custom_name,enum=custom_payload,enum=producer,enum=function_name"`
	Match   Match  `yaml:"match" toml:"match" json:"match" jsonschema:"enum=equals,enum=prefix,enum=suffix,enum=contains,enum=regex,enum=rust_mangled"`
	Value   string `yaml:"value,omitempty" toml:"value,omitempty" json:"value,omitempty"`
	Module  string `yaml:"module,omitempty" toml:"module,omitempty" json:"module,omitempty"`
	Section string `yaml:"section,omitempty" toml:"section,omitempty" json:"section,omitempty"`
	Field   string `yaml:"field,omitempty" toml:"field,omitempty" json:"field,omitempty"`
}

func (m Marker) String() string {
	var b strings.Builder
	b.WriteString(string(m.Where))
	if m.Module != "" {
		fmt.Fprintf(&b, "[module=%s]", m.Module)
	}
	if m.Section != "" {
		fmt.Fprintf(&b, "[section=%s]", m.Section)
	}
	if m.Field != "" {
		fmt.Fprintf(&b, "[field=%s]", m.Field)
	}
	b.WriteByte(' ')
	b.WriteString(string(m.Match))
	if m.Match != MatchRustMangled {
		fmt.Fprintf(&b, " %q", m.Value)
	}
	return b.String()
}

//go:embed default.yaml
var defaultYAML []byte

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
	}
	return c
}

// Load decodes a YAML catalog and validates it. Unknown keys are rejected.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidInput(errors.PhaseParse, "catalog is empty")
		}
		return nil, errors.ParseFailed("catalog", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadTOML decodes a TOML catalog and validates it. Unknown keys are rejected.
func LoadTOML(r io.Reader) (*Catalog, error) {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, errors.ParseFailed("catalog", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalog from disk. Files ending in .toml are decoded as
// TOML, everything else as YAML.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		e := errors.NotFound(errors.PhaseLoad, "catalog", path)
		e.Cause = err
		return nil, e
	}
	if err != nil {
		return nil, errors.Load(path, err)
	}

	load := Load
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		load = LoadTOML
	}
	c, err := load(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "catalog "+path)
	}

	Logger().Debug("catalog loaded",
		zap.String("path", path),
		zap.Int("rules", len(c.Rules)),
		zap.Int("markers", c.MarkerCount()))
	return c, nil
}

// Encode writes c as YAML.
func Encode(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "encode catalog")
	}
	return enc.Close()
}

// MarkerCount returns the total number of markers across all rules.
func (c *Catalog) MarkerCount() int {
	n := 0
	for _, r := range c.Rules {
		n += len(r.Markers)
	}
	return n
}
