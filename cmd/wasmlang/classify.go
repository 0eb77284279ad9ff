package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasmlang/batch"
	"github.com/wippyai/wasmlang/errors"
)

func newClassifyCmd(a *app) *cobra.Command {
	var (
		summary  bool
		progress bool
	)
	d := defaultSettings()

	cmd := &cobra.Command{
		Use:   "classify <path>...",
		Short: "Classify modules in files and directories",
		Long: `Classify every module found under the given paths. Directories are walked
recursively and filtered by --ext; files named explicitly are always read.

Records go to stdout. The label summary follows text output on stdout and
goes to stderr for csv and json so the record stream stays parseable.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runClassify(cmd, args, summary, progress)
		},
	}

	f := cmd.Flags()
	f.StringP("format", "f", d.Format, "output format: text, csv or json")
	f.StringSlice("ext", d.Ext, "file extensions to pick up when walking directories (empty for all)")
	f.BoolVar(&summary, "summary", true, "print label counts and the unclassified percentage")
	f.BoolVar(&progress, "progress", false, "show a progress bar on stderr when it is a terminal")

	return cmd
}

func (a *app) runClassify(cmd *cobra.Command, args []string, summary, showProgress bool) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	c, err := a.getClassifier()
	if err != nil {
		return err
	}
	paths, err := batch.Collect(args, a.cfg.Ext)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		a.log.Warn("no input files", zap.Strings("paths", args), zap.Strings("ext", a.cfg.Ext))
	}

	rw, err := batch.NewRecordWriter(stdout, a.cfg.Format)
	if err != nil {
		return err
	}

	var bar *progressBar
	if showProgress && isTerminal(stderr) && len(paths) > 0 {
		bar = startProgress(stderr, len(paths))
	}

	var (
		tally    batch.Tally
		writeErr error
	)
	runner := &batch.Runner{Classifier: c, Workers: a.cfg.Workers, Logger: a.log.Named("batch")}
	runErr := runner.Run(ctx, paths, func(rec batch.Record) {
		tally.Add(rec)
		if writeErr == nil {
			writeErr = rw.Write(rec)
		}
		if bar != nil {
			bar.step(rec)
		}
	})
	if bar != nil {
		bar.stop()
	}

	if err := rw.Flush(); err != nil && writeErr == nil {
		writeErr = err
	}
	if runErr != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindIO, runErr, "classification interrupted")
	}
	if writeErr != nil {
		return writeErr
	}

	if summary {
		out := stdout
		if a.cfg.Format != batch.FormatText {
			out = stderr
		}
		return writeSummary(out, &tally)
	}
	return nil
}

// writeSummary renders a styled table on terminals and the plain summary
// everywhere else.
func writeSummary(w io.Writer, t *batch.Tally) error {
	if !isTerminal(w) {
		if _, err := fmt.Fprintln(w); err != nil {
			return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "write summary")
		}
		return batch.WriteSummary(w, t)
	}
	if _, err := fmt.Fprintln(w, renderSummary(t)); err != nil {
		return errors.Wrap(errors.PhaseReport, errors.KindIO, err, "write summary")
	}
	return nil
}
