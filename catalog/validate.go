package catalog

import (
	"regexp"
	"strconv"

	"github.com/wippyai/wasmlang/errors"
	"github.com/wippyai/wasmlang/wasm"
)

var producerFields = map[string]bool{
	wasm.ProducerLanguage:    true,
	wasm.ProducerProcessedBy: true,
	wasm.ProducerSDK:         true,
}

// Validate checks the structure of c and reports every problem it finds,
// joined into a single error. Labels are checked when the catalog is
// compiled into a classifier.
func Validate(c *Catalog) error {
	var errs []error

	if c.Version != SchemaVersion {
		errs = append(errs, errors.New(errors.PhaseValidate, errors.KindUnsupported).
			Path("version").
			Value(c.Version).
			Detail("catalog version %d, want %d", c.Version, SchemaVersion).
			Build())
	}

	seen := make(map[string]int, len(c.Rules))
	for i, r := range c.Rules {
		path := []string{"rules", strconv.Itoa(i)}

		if r.ID == "" {
			errs = append(errs, errors.InvalidData(errors.PhaseValidate, append(path, "id"), "rule id is empty"))
		} else if prev, ok := seen[r.ID]; ok {
			err := errors.Duplicate(errors.PhaseValidate, append(path, "id"), "rule id", r.ID)
			err.Detail += " (first at rules." + strconv.Itoa(prev) + ")"
			errs = append(errs, err)
		} else {
			seen[r.ID] = i
		}

		if r.Label == "" {
			errs = append(errs, errors.InvalidData(errors.PhaseValidate, append(path, "label"), "rule label is empty"))
		}
		if len(r.Markers) == 0 {
			errs = append(errs, errors.InvalidData(errors.PhaseValidate, append(path, "markers"), "rule has no markers"))
		}

		for j, m := range r.Markers {
			mpath := append(append([]string(nil), path...), "markers", strconv.Itoa(j))
			errs = append(errs, validateMarker(m, mpath)...)
		}
	}

	return errors.Join(errs...)
}

func validateMarker(m Marker, path []string) []error {
	var errs []error
	at := func(field string) []string {
		return append(append([]string(nil), path...), field)
	}

	switch m.Where {
	case WhereImportModule, WhereImportName, WhereExportName, WhereCustomName,
		WhereCustomPayload, WhereProducer, WhereFunctionName:
	default:
		errs = append(errs, errors.Unsupported(errors.PhaseValidate, at("where"), "where", string(m.Where)))
	}

	switch m.Match {
	case MatchEquals, MatchPrefix, MatchSuffix, MatchContains:
		if m.Value == "" {
			errs = append(errs, errors.InvalidData(errors.PhaseValidate, at("value"), "value is empty"))
		}
	case MatchRegex:
		if _, err := regexp.Compile(m.Value); err != nil {
			errs = append(errs, errors.New(errors.PhaseValidate, errors.KindInvalidData).
				Path(at("value")...).
				Value(m.Value).
				Cause(err).
				Detail("invalid regex").
				Build())
		}
	case MatchRustMangled:
	default:
		errs = append(errs, errors.Unsupported(errors.PhaseValidate, at("match"), "match", string(m.Match)))
	}

	if m.Module != "" && m.Where != WhereImportName {
		errs = append(errs, errors.InvalidData(errors.PhaseValidate, at("module"),
			"module only applies to import_name markers"))
	}
	if m.Section != "" && m.Where != WhereCustomPayload {
		errs = append(errs, errors.InvalidData(errors.PhaseValidate, at("section"),
			"section only applies to custom_payload markers"))
	}
	if m.Field != "" {
		if m.Where != WhereProducer {
			errs = append(errs, errors.InvalidData(errors.PhaseValidate, at("field"),
				"field only applies to producer markers"))
		} else if !producerFields[m.Field] {
			errs = append(errs, errors.Unsupported(errors.PhaseValidate, at("field"), "producer field", m.Field))
		}
	}

	return errs
}
