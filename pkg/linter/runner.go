package linter

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/lint"
)

// LintPaths discovers and lints the files under paths. Files of one input
// path form one LintedDir, sorted by file path. A missing path aborts the
// run unless ignore_non_existent_files is set. Errors inside a file are
// recorded on that file and never abort the run.
func (l *Linter) LintPaths(ctx context.Context, paths []string, fixing bool) (*LintingResult, error) {
	result := newLintingResult()
	defer result.stop()

	for _, path := range paths {
		files, err := l.PathsFromPath(path, PathOptions{})
		if err != nil {
			return result, err
		}
		l.logger.Debug("discovered files", "path", path, "count", len(files))

		linted, err := l.lintFiles(ctx, files, fixing)
		if err != nil {
			return result, err
		}
		result.add(&LintedDir{Path: path, Files: linted})
	}
	return result, nil
}

// workers resolves the configured process count. Negative values count
// back from the number of CPUs, so -1 means all of them.
func (l *Linter) workers(n int) int {
	p := l.cfg.Processes
	if p < 0 {
		p = runtime.NumCPU() + p + 1
	}
	return max(1, min(p, n))
}

func (l *Linter) lintFiles(ctx context.Context, files []string, fixing bool) ([]*LintedFile, error) {
	results := make([]*LintedFile, len(files))
	workers := l.workers(len(files))

	if workers <= 1 {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				return results[:i], err
			}
			results[i] = l.lintPath(path, fixing)
			l.dispatch(results[i], fixing)
		}
		return results, nil
	}

	l.logger.Debug("linting in parallel", "files", len(files), "workers", workers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.lintPath(path, fixing)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compact(results), err
	}

	// dispatch after the fact so output order matches the sequential runner
	for _, file := range results {
		l.dispatch(file, fixing)
	}
	return results, nil
}

// lintPath runs the whole pipeline for one file.
func (l *Linter) lintPath(path string, fixing bool) *LintedFile {
	rendered, err := l.RenderFile(path)
	if err != nil {
		var userErr *core.UserError
		if errors.As(err, &userErr) {
			l.logger.Error("cannot lint file", "file", path, "error", err)
		} else {
			l.logger.Warn("cannot lint file", "file", path, "error", err)
		}
		return &LintedFile{Path: path, Err: err, Timings: Timings{}, Stats: LoopStats{Passes: map[lint.Phase]int{}}}
	}
	return l.LintRendered(rendered, fixing)
}

func compact(files []*LintedFile) []*LintedFile {
	out := files[:0:0]
	for _, f := range files {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}
