package inspect

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"

	"github.com/wippyai/wasmlang/batch"
	"github.com/wippyai/wasmlang/classify"
	"github.com/wippyai/wasmlang/wasm"
)

// Report is everything wasmlang knows about one module.
type Report struct {
	View       *wasm.View
	Validation *Validation
	Hash       string
	Names      wasm.Names
	Producers  []wasm.ProducerField
	Result     classify.Result
	Size       int
}

// Validation is the outcome of compiling the module with wazero, compared
// against what the tolerant reader decoded.
type Validation struct {
	// Err is the compile error, nil when wazero accepted the module.
	Err error
	// Missing lists function imports/exports wazero reports that the
	// reader did not decode, as "import module.name" or "export name".
	Missing []string
	// Extra lists function imports/exports the reader decoded that wazero
	// does not report.
	Extra []string

	ImportedFuncs int
	ExportedFuncs int
}

// Agrees reports whether wazero compiled the module and saw the same
// function imports and exports.
func (v *Validation) Agrees() bool {
	return v.Err == nil && len(v.Missing) == 0 && len(v.Extra) == 0
}

// Options controls Inspect.
type Options struct {
	// Classifier defaults to classify.Default().
	Classifier *classify.Classifier
	// Validate compiles the module with wazero as a cross-check.
	Validate bool
}

// Inspect decodes data and gathers a report. Payload decode errors are kept
// in the report as partial data; the only error returned is ctx's.
func Inspect(ctx context.Context, data []byte, opts Options) (*Report, error) {
	c := opts.Classifier
	if c == nil {
		c = classify.Default()
	}

	v := wasm.Parse(data)
	r := &Report{
		View:   v,
		Hash:   batch.Hash(data),
		Size:   len(data),
		Result: c.Classify(v),
	}

	for _, payload := range v.Custom(wasm.CustomSectionProducers) {
		p, err := wasm.ParseProducers(payload)
		if err != nil {
			Logger().Debug("producers section", zap.Error(err))
		}
		r.Producers = append(r.Producers, p.Fields...)
	}
	for _, payload := range v.Custom(wasm.CustomSectionName) {
		n, err := wasm.ParseNames(payload)
		if err != nil {
			Logger().Debug("name section", zap.Error(err))
		}
		if r.Names.Module == "" {
			r.Names.Module = n.Module
		}
		r.Names.Functions = append(r.Names.Functions, n.Functions...)
	}

	if opts.Validate {
		val, err := Validate(ctx, data, v)
		if err != nil {
			return nil, err
		}
		r.Validation = val
	}
	return r, nil
}

// Validate compiles data with wazero and compares its function imports and
// exports against v.
func Validate(ctx context.Context, data []byte, v *wasm.View) (*Validation, error) {
	cfg := wazero.NewRuntimeConfig().
		WithCoreFeatures(api.CoreFeaturesV2 | experimental.CoreFeaturesThreads).
		WithCustomSections(true)
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, data)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		Logger().Debug("wazero rejected module", zap.Error(err))
		return &Validation{Err: err}, nil
	}
	defer compiled.Close(ctx)

	var oracle []string
	imports := compiled.ImportedFunctions()
	for _, f := range imports {
		mod, name, _ := f.Import()
		oracle = append(oracle, "import "+mod+"."+name)
	}
	exports := compiled.ExportedFunctions()
	for name := range exports {
		oracle = append(oracle, "export "+name)
	}

	var decoded []string
	for _, imp := range v.Imports {
		if imp.Kind == wasm.KindFunc {
			decoded = append(decoded, "import "+imp.Module+"."+imp.Name)
		}
	}
	for _, exp := range v.Exports {
		if exp.Kind == wasm.KindFunc {
			decoded = append(decoded, "export "+exp.Name)
		}
	}

	return &Validation{
		ImportedFuncs: len(imports),
		ExportedFuncs: len(exports),
		Missing:       difference(oracle, decoded),
		Extra:         difference(decoded, oracle),
	}, nil
}

// difference returns the sorted elements of a not present in b.
func difference(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, s := range b {
		in[s] = true
	}
	var out []string
	for _, s := range a {
		if !in[s] {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
