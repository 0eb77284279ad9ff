package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	d := defaultSettings()

	root := &cobra.Command{
		Use:   appName,
		Short: "Identify the toolchain that built a WebAssembly module",
		Long: titleStyle.Render(appName) + subtleStyle.Render(" - WebAssembly toolchain classifier") + `

wasmlang reads compiled WebAssembly modules and attributes each one to
Rust, AssemblyScript, Go or Emscripten using only what the binary carries:
imports, exports, custom sections and embedded producer metadata.
Undecodable input is reported as Unknown, or UnknownCompressed when it is
still gzip, zip, zstd or Brotli framed.

` + subtleStyle.Render("Examples:") + `
  wasmlang classify ./modules            Classify every .wasm under a directory
  wasmlang classify -f csv a.wasm b.wasm Emit CSV records
  wasmlang inspect --validate app.wasm   Show what was decoded and why
  wasmlang catalog show                  Print the built-in signature catalog`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./wasmlang.yaml or $XDG_CONFIG_HOME/wasmlang/wasmlang.yaml)")
	pf.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	pf.String("catalog", "", "signature catalog file, YAML or TOML (default built-in)")
	pf.IntP("workers", "w", runtime.NumCPU(), "files classified in parallel")

	root.AddCommand(newClassifyCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newCatalogCmd(a))

	return root
}
