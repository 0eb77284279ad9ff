package catalog

import (
	"strings"
	"testing"

	"github.com/wippyai/wasmlang/errors"
)

func validRule(id string) Rule {
	return Rule{
		ID:      id,
		Label:   "Rust",
		Markers: []Marker{{Where: WhereExportName, Match: MatchContains, Value: "wbindgen"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		catalog  Catalog
		wantKind errors.Kind
		contains string
	}{
		{
			name:     "bad version",
			catalog:  Catalog{Version: 3, Rules: []Rule{validRule("a")}},
			wantKind: errors.KindUnsupported,
			contains: "version",
		},
		{
			name:     "duplicate id",
			catalog:  Catalog{Version: 1, Rules: []Rule{validRule("a"), validRule("a")}},
			wantKind: errors.KindDuplicate,
			contains: "first at rules.0",
		},
		{
			name:     "empty id",
			catalog:  Catalog{Version: 1, Rules: []Rule{validRule("")}},
			wantKind: errors.KindInvalidData,
			contains: "rules.0.id",
		},
		{
			name: "no markers",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Label: "Go"},
			}},
			wantKind: errors.KindInvalidData,
			contains: "no markers",
		},
		{
			name: "empty label",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Markers: validRule("a").Markers},
			}},
			wantKind: errors.KindInvalidData,
			contains: "label",
		},
		{
			name: "unknown where",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Label: "Go", Markers: []Marker{{Where: "data_segment", Match: MatchEquals, Value: "x"}}},
			}},
			wantKind: errors.KindUnsupported,
			contains: "data_segment",
		},
		{
			name: "unknown match",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Label: "Go", Markers: []Marker{{Where: WhereExportName, Match: "glob", Value: "x*"}}},
			}},
			wantKind: errors.KindUnsupported,
			contains: "glob",
		},
		{
			name: "bad regex",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Label: "Go", Markers: []Marker{{Where: WhereExportName, Match: MatchRegex, Value: "(unclosed"}}},
			}},
			wantKind: errors.KindInvalidData,
			contains: "invalid regex",
		},
		{
			name: "empty value",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Label: "Go", Markers: []Marker{{Where: WhereExportName, Match: MatchPrefix}}},
			}},
			wantKind: errors.KindInvalidData,
			contains: "value is empty",
		},
		{
			name: "module on export marker",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Label: "Go", Markers: []Marker{{Where: WhereExportName, Match: MatchEquals, Value: "x", Module: "env"}}},
			}},
			wantKind: errors.KindInvalidData,
			contains: "module only applies",
		},
		{
			name: "section on custom_name marker",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Label: "Go", Markers: []Marker{{Where: WhereCustomName, Match: MatchEquals, Value: "x", Section: "y"}}},
			}},
			wantKind: errors.KindInvalidData,
			contains: "section only applies",
		},
		{
			name: "field on import marker",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Label: "Go", Markers: []Marker{{Where: WhereImportModule, Match: MatchEquals, Value: "x", Field: "sdk"}}},
			}},
			wantKind: errors.KindInvalidData,
			contains: "field only applies",
		},
		{
			name: "unknown producer field",
			catalog: Catalog{Version: 1, Rules: []Rule{
				{ID: "a", Label: "Go", Markers: []Marker{{Where: WhereProducer, Match: MatchEquals, Value: "x", Field: "compiler"}}},
			}},
			wantKind: errors.KindUnsupported,
			contains: "compiler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.catalog)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, &errors.Error{Phase: errors.PhaseValidate, Kind: tt.wantKind}) {
				t.Errorf("error %v is not a %s validation error", err, tt.wantKind)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	c := Catalog{Version: 1, Rules: []Rule{
		{ID: "a", Label: "Go", Markers: []Marker{
			{Where: "nowhere", Match: MatchEquals, Value: "x"},
			{Where: WhereExportName, Match: MatchRegex, Value: "["},
		}},
		validRule("a"),
	}}

	err := Validate(&c)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"nowhere", "invalid regex", "duplicate rule id"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestValidateAccepts(t *testing.T) {
	c := Catalog{Version: 1, Rules: []Rule{
		validRule("a"),
		{ID: "b", Label: "Rust", Markers: []Marker{
			{Where: WhereFunctionName, Match: MatchRustMangled},
			{Where: WhereImportName, Match: MatchEquals, Value: "abort", Module: "env"},
			{Where: WhereCustomPayload, Match: MatchRegex, Value: `rustc \d+\.\d+`, Section: "producers"},
			{Where: WhereProducer, Match: MatchSuffix, Value: "c", Field: "processed-by"},
		}},
	}}
	if err := Validate(&c); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := Validate(Default()); err != nil {
		t.Errorf("default catalog: %v", err)
	}
}
