package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/watch"
)

// runWatch builds once, then rebuilds after every change under the source
// directory until ctx is canceled. Build errors are reported and watching
// continues.
func runWatch(ctx context.Context, j *job, env *Environment, f commonFlags, logger *slog.Logger, build func(context.Context) error) error {
	if err := build(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}

	root := j.src
	if j.mode == modeFile {
		root = filepath.Dir(j.src)
	}

	opts := append([]watch.Option{watch.WithLogger(logger)}, outputOptions(root, j.dest)...)
	w, err := watch.New(root, opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", md2site.ErrSourceNotFound, err)
	}
	defer func() { _ = w.Close() }()

	printf(env, f, "Watching %s (Ctrl+C to stop)\n", root)
	return w.Run(ctx, build)
}

// outputOptions keeps events caused by our own output from triggering
// endless rebuilds. A destination nested in the watched root is excluded
// whole; when it is the root itself, generated pages, the stylesheet and
// the outline are filtered by name.
func outputOptions(root, dest string) []watch.Option {
	absRoot, errRoot := filepath.Abs(root)
	absDest, errDest := filepath.Abs(dest)
	if errRoot != nil || errDest != nil {
		return nil
	}
	if absDest != absRoot {
		return []watch.Option{watch.WithExclude(absDest)}
	}
	return []watch.Option{watch.WithIgnore(generatedFilter(absDest))}
}

// generatedFilter matches files the build writes into dir.
func generatedFilter(dir string) func(string) bool {
	return func(path string) bool {
		base := filepath.Base(path)
		return strings.HasSuffix(base, ".html") ||
			base == md2site.StylesheetName ||
			(filepath.Dir(path) == dir && base == md2site.IndexName)
	}
}
