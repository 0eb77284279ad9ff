package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasmlang/errors"
	"github.com/wippyai/wasmlang/inspect"
	"github.com/wippyai/wasmlang/sniff"
	"github.com/wippyai/wasmlang/wasm"
)

// maxListed caps how many entries of one kind inspect prints.
const maxListed = 12

func newInspectCmd(a *app) *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show what was decoded from one module and why it got its label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.getClassifier()
			if err != nil {
				return err
			}
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Load(path, err)
			}
			r, err := inspect.Inspect(cmd.Context(), data, inspect.Options{Classifier: c, Validate: validate})
			if err != nil {
				return err
			}
			if err := writeReport(cmd.OutOrStdout(), path, r); err != nil {
				return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "write report")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "cross-check the decoded imports and exports by compiling with wazero")
	return cmd
}

func writeReport(w io.Writer, path string, r *inspect.Report) error {
	var b strings.Builder
	line := func(key, value string) {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render(fmt.Sprintf("%-12s", key)), value)
	}

	b.WriteString(titleStyle.Render(path) + "\n\n")

	line("label", labelStyle(r.Result.Label).Render(r.Result.Label.String()))
	if r.Result.Matched() {
		line("rule", r.Result.Rule)
		line("evidence", symbolStyle.Render(r.Result.Evidence))
	}
	line("size", fmt.Sprintf("%d bytes", r.Size))
	line("xxh3", r.Hash)

	v := r.View
	status := v.Status.String()
	if v.Status == wasm.StatusOK {
		status = okStyle.Render(status)
	} else {
		status = errorStyle.Render(status)
	}
	line("status", status)
	if v.Status == wasm.StatusInvalidMagic {
		if sniff.Detect(v.Leading) != sniff.None {
			line("framing", sniff.Describe(v.Leading))
		}
	} else {
		line("version", fmt.Sprintf("0x%x", v.Version))
	}
	for _, issue := range v.Issues {
		line("issue", errorStyle.Render(issue.String()))
	}

	section(&b, "imports", len(v.Imports), func(i int) string {
		imp := v.Imports[i]
		return fmt.Sprintf("%s %s", subtleStyle.Render(imp.Kind.String()), symbolStyle.Render(imp.Module+"."+imp.Name))
	})
	section(&b, "exports", len(v.Exports), func(i int) string {
		exp := v.Exports[i]
		return fmt.Sprintf("%s %s", subtleStyle.Render(exp.Kind.String()), symbolStyle.Render(exp.Name))
	})
	section(&b, "custom sections", len(v.CustomSections), func(i int) string {
		cs := v.CustomSections[i]
		return fmt.Sprintf("%s %s", symbolStyle.Render(cs.Name), subtleStyle.Render(fmt.Sprintf("(%d bytes)", len(cs.Data))))
	})
	section(&b, "producers", len(r.Producers), func(i int) string {
		f := r.Producers[i]
		vals := make([]string, 0, len(f.Values))
		for _, pv := range f.Values {
			vals = append(vals, strings.TrimSpace(pv.Name+" "+pv.Version))
		}
		return fmt.Sprintf("%s %s", keyStyle.Render(f.Name+":"), strings.Join(vals, ", "))
	})
	if r.Names.Module != "" || len(r.Names.Functions) > 0 {
		b.WriteString("\n")
		if r.Names.Module != "" {
			line("module name", r.Names.Module)
		}
		line("named funcs", fmt.Sprintf("%d", len(r.Names.Functions)))
	}

	if val := r.Validation; val != nil {
		b.WriteString("\n")
		switch {
		case val.Err != nil:
			line("wazero", errorStyle.Render(val.Err.Error()))
		case val.Agrees():
			line("wazero", okStyle.Render(fmt.Sprintf("ok, %d imported and %d exported functions match",
				val.ImportedFuncs, val.ExportedFuncs)))
		default:
			line("wazero", errorStyle.Render("decoded functions differ"))
			for _, m := range val.Missing {
				line("  missing", m)
			}
			for _, e := range val.Extra {
				line("  extra", e)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// section writes a heading with n and up to maxListed entries.
func section(b *strings.Builder, title string, n int, entry func(int) string) {
	if n == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s %s\n", headerStyle.Render(title), subtleStyle.Render(fmt.Sprintf("(%d)", n)))
	for i := range min(n, maxListed) {
		b.WriteString("  " + entry(i) + "\n")
	}
	if n > maxListed {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("  ... %d more", n-maxListed)) + "\n")
	}
}
