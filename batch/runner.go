// Package batch implements the PNG→WebP batch conversion engine: recursive
// discovery, structure-preserving path mapping, per-file error isolation,
// and ordered progress reporting to a caller-supplied observer. The codec
// itself is an injected collaborator; the engine treats it as opaque.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultQuality is the WebP quality level used when the caller does not
// override it.
const DefaultQuality = 85

// Converter performs one source→dest conversion at the given quality. Any
// error it returns is recorded as a per-file failure; it never aborts the
// batch. Implementations live in the codec package; tests inject fakes.
type Converter interface {
	Convert(ctx context.Context, src, dst string, quality int) error
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(ctx context.Context, src, dst string, quality int) error

func (f ConverterFunc) Convert(ctx context.Context, src, dst string, quality int) error {
	return f(ctx, src, dst, quality)
}

// Runner drives batch runs with a fixed injected converter. It holds no
// cross-run state; every Run call is self-contained.
type Runner struct {
	conv Converter
}

func NewRunner(conv Converter) *Runner {
	return &Runner{conv: conv}
}

// Run converts every PNG under sourceRoot into destRoot, mirroring the
// directory layout, and reports each file's outcome to obs in discovery
// order. Per-file failures (bad path, unreadable input, codec error) are
// recorded and the run continues; only a missing or unwalkable source root
// fails the whole run, before any observer event is emitted. Cancellation
// via ctx is honored between files, never mid-file; a canceled run still
// emits OnComplete with the counts accumulated so far.
func (r *Runner) Run(ctx context.Context, sourceRoot, destRoot string, quality int, obs Observer) (Summary, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	start := time.Now()

	info, err := os.Stat(sourceRoot)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceRoot)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, sourceRoot)
	}

	files, err := Discover(sourceRoot)
	if err != nil {
		return Summary{}, fmt.Errorf("discovery failed: %w", err)
	}

	sum := Summary{Total: len(files)}
	for i, src := range files {
		if ctx.Err() != nil {
			sum.Canceled = true
			break
		}

		res := r.convertOne(ctx, sourceRoot, destRoot, src, quality)
		if res.Outcome == OutcomeSucceeded {
			sum.Succeeded++
		} else {
			sum.Failed++
		}

		obs.OnProgress(i+1, len(files), res.Task)
		obs.OnResult(res)
	}

	sum.Duration = time.Since(start)
	obs.OnComplete(sum)
	return sum, nil
}

// convertOne resolves a single file: map path, ensure the parent directory,
// invoke the codec. Every failure path is folded into a Result so the
// caller's loop never has to branch.
func (r *Runner) convertOne(ctx context.Context, sourceRoot, destRoot, src string, quality int) Result {
	t := Task{Source: src}

	dst, err := MapPath(sourceRoot, destRoot, src)
	if err != nil {
		return failure(t, FailureInvalidPath, err)
	}
	t.Dest = dst

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return failure(t, FailureMkdir, err)
	}

	if err := r.conv.Convert(ctx, src, dst, quality); err != nil {
		return failure(t, FailureConvert, err)
	}
	return success(t)
}
