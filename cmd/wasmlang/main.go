// Command wasmlang classifies WebAssembly modules by the toolchain that
// produced them.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// Set via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	a := newApp()
	defer a.sync()

	if err := fang.Execute(
		context.Background(),
		newRootCmd(a),
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func versionString() string {
	if commit == "unknown" {
		return version
	}
	return version + " (" + commit + ")"
}
