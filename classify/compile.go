package classify

import (
	"bytes"
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/wasmlang/catalog"
	"github.com/wippyai/wasmlang/errors"
	"github.com/wippyai/wasmlang/wasm"
)

// catalogRule is a rule compiled from a catalog entry.
type catalogRule struct {
	id      string
	label   Label
	markers []marker
}

func (r *catalogRule) ID() string   { return r.id }
func (r *catalogRule) Label() Label { return r.label }

func (r *catalogRule) Match(s *Subject) (string, bool) {
	for i := range r.markers {
		if symbol, ok := r.markers[i].find(s); ok {
			return r.markers[i].def.String() + ": " + symbol, true
		}
	}
	return "", false
}

// marker is a compiled catalog marker. text compares symbols; raw compares
// custom section payloads without copying them.
type marker struct {
	def  catalog.Marker
	text func(string) bool
	raw  func([]byte) bool
}

// find returns the first symbol in s that the marker accepts.
func (m *marker) find(s *Subject) (string, bool) {
	v := s.View
	switch m.def.Where {
	case catalog.WhereImportModule:
		for _, imp := range v.Imports {
			if m.text(imp.Module) {
				return imp.Module, true
			}
		}
	case catalog.WhereImportName:
		for _, imp := range v.Imports {
			if m.def.Module != "" && imp.Module != m.def.Module {
				continue
			}
			if m.text(imp.Name) {
				return imp.Module + ":" + imp.Name, true
			}
		}
	case catalog.WhereExportName:
		for _, exp := range v.Exports {
			if m.text(exp.Name) {
				return exp.Name, true
			}
		}
	case catalog.WhereCustomName:
		for _, cs := range v.CustomSections {
			if m.text(cs.Name) {
				return cs.Name, true
			}
		}
	case catalog.WhereCustomPayload:
		for _, cs := range v.CustomSections {
			if m.def.Section != "" && cs.Name != m.def.Section {
				continue
			}
			if m.raw(cs.Data) {
				return "section " + strconv.Quote(cs.Name), true
			}
		}
	case catalog.WhereProducer:
		for _, f := range s.Producers() {
			if m.def.Field != "" && f.Name != m.def.Field {
				continue
			}
			for _, pv := range f.Values {
				if m.text(pv.Name) {
					return f.Name + "=" + pv.Name + producerVersion(pv), true
				}
			}
		}
	case catalog.WhereFunctionName:
		for _, name := range s.FunctionNames() {
			if m.text(name) {
				return name, true
			}
		}
	}
	return "", false
}

func producerVersion(pv wasm.ProducerValue) string {
	if pv.Version == "" {
		return ""
	}
	return " " + pv.Version
}

// compile turns a validated catalog into rules sorted by label priority.
// Rules sharing a label keep their catalog order.
func compile(c *catalog.Catalog) ([]Rule, error) {
	if err := catalog.Validate(c); err != nil {
		return nil, err
	}

	var errs []error
	compiled := make([]*catalogRule, 0, len(c.Rules))

	for i, r := range c.Rules {
		path := []string{"rules", strconv.Itoa(i), "label"}
		label, err := ParseLabel(r.Label)
		if err != nil {
			errs = append(errs, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				Path(path...).
				Value(r.Label).
				Cause(err).
				Detail("rule %q has unknown label %q", r.ID, r.Label).
				Build())
			continue
		}
		if _, ok := priority[label]; !ok {
			errs = append(errs, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				Path(path...).
				Value(r.Label).
				Detail("rule %q: %s is a fallback label and cannot be assigned by a rule", r.ID, label).
				Build())
			continue
		}

		cr := &catalogRule{id: r.ID, label: label, markers: make([]marker, 0, len(r.Markers))}
		for j, m := range r.Markers {
			cm, err := compileMarker(m)
			if err != nil {
				errs = append(errs, errors.New(errors.PhaseCompile, errors.KindInvalidData).
					Path("rules", strconv.Itoa(i), "markers", strconv.Itoa(j)).
					Cause(err).
					Detail("compile marker").
					Build())
				continue
			}
			cr.markers = append(cr.markers, cm)
		}
		compiled = append(compiled, cr)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	slices.SortStableFunc(compiled, func(a, b *catalogRule) int {
		return cmp.Compare(priority[a.label], priority[b.label])
	})

	rules := make([]Rule, len(compiled))
	for i, r := range compiled {
		rules[i] = r
	}
	return rules, nil
}

func compileMarker(m catalog.Marker) (marker, error) {
	cm := marker{def: m}
	v := m.Value

	switch m.Match {
	case catalog.MatchEquals:
		cm.text = func(s string) bool { return s == v }
		cm.raw = func(b []byte) bool { return string(b) == v }
	case catalog.MatchPrefix:
		cm.text = func(s string) bool { return strings.HasPrefix(s, v) }
		cm.raw = func(b []byte) bool { return bytes.HasPrefix(b, []byte(v)) }
	case catalog.MatchSuffix:
		cm.text = func(s string) bool { return strings.HasSuffix(s, v) }
		cm.raw = func(b []byte) bool { return bytes.HasSuffix(b, []byte(v)) }
	case catalog.MatchContains:
		cm.text = func(s string) bool { return strings.Contains(s, v) }
		cm.raw = func(b []byte) bool { return bytes.Contains(b, []byte(v)) }
	case catalog.MatchRegex:
		re, err := regexp.Compile(v)
		if err != nil {
			return cm, err
		}
		cm.text = re.MatchString
		cm.raw = re.Match
	case catalog.MatchRustMangled:
		cm.text = isRustSymbol
		cm.raw = func(b []byte) bool { return isRustSymbol(string(b)) }
	default:
		return cm, errors.Unsupported(errors.PhaseCompile, nil, "match", string(m.Match))
	}
	return cm, nil
}
