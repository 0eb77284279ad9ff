package catalog

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/wippyai/wasmlang/errors"
)

// Schema returns the JSON Schema describing the catalog file format.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&Catalog{})
	schema.Title = "wasmlang signature catalog"

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseReport, errors.KindInvalidData, err, "marshal catalog schema")
	}
	return out, nil
}
