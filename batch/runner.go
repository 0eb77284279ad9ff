package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/wasmlang/classify"
	"github.com/wippyai/wasmlang/errors"
	"github.com/wippyai/wasmlang/wasm"
)

// Runner classifies files concurrently.
type Runner struct {
	// Classifier defaults to classify.Default().
	Classifier *classify.Classifier
	// Logger defaults to the package logger.
	Logger *zap.Logger
	// Workers bounds the number of files in flight. Zero or less means one
	// per CPU.
	Workers int
}

// Run classifies every path and hands each record to emit. Calls to emit
// are serialized but arrive in no particular order. A file that cannot be
// read produces a record with Err set; it never stops the batch. Run
// returns early only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, paths []string, emit func(Record)) error {
	c := r.Classifier
	if c == nil {
		c = classify.Default()
	}
	log := r.Logger
	if log == nil {
		log = Logger()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	log.Info("batch started", zap.Int("files", len(paths)), zap.Int("workers", workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := classifyFile(c, log, path)
			mu.Lock()
			emit(rec)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn("batch interrupted", zap.Error(err))
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Info("batch finished", zap.Int("files", len(paths)))
	return nil
}

func classifyFile(c *classify.Classifier, log *zap.Logger, path string) Record {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("read failed", zap.String("path", path), zap.Error(err))
		return Record{
			Path:  path,
			Label: classify.Unknown,
			Err:   errors.Load(path, err),
		}
	}

	v := wasm.Parse(data)
	res := c.Classify(v)

	rec := Record{
		Path:     path,
		Hash:     Hash(data),
		Size:     int64(len(data)),
		Label:    res.Label,
		Rule:     res.Rule,
		Evidence: res.Evidence,
		Status:   v.Status.String(),
	}

	if ce := log.Check(zap.DebugLevel, "classified"); ce != nil {
		fields := []zap.Field{
			zap.String("path", path),
			zap.String("label", string(res.Label)),
			zap.String("rule", res.Rule),
			zap.String("status", rec.Status),
		}
		if len(v.Issues) > 0 {
			fields = append(fields, zap.Stringer("first_issue", v.Issues[0]))
		}
		ce.Write(fields...)
	}
	return rec
}

// Hash returns the xxh3-64 digest of data as 16 hex digits.
func Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}
