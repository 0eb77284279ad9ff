package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/wasmlang/errors"
)

// Collect expands paths into a sorted, de-duplicated list of files.
// Directories are walked recursively and only files whose extension is in
// exts (case-insensitive) are kept; an empty exts keeps every file. Files
// named explicitly are always kept.
func Collect(paths []string, exts []string) ([]string, error) {
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[e] = true
	}
	accept := func(name string) bool {
		return len(want) == 0 || want[strings.ToLower(filepath.Ext(name))]
	}

	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Load(root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && accept(d.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindIO, err, "walk "+root)
		}
	}

	slices.Sort(out)
	Logger().Debug("collected inputs",
		zap.Strings("roots", paths),
		zap.Int("files", len(out)))
	return out, nil
}
