package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/hints"
)

// Sentinel errors for the CLI.
var (
	ErrUsage         = errors.New("invalid usage")
	ErrPartialExport = errors.New("some directories could not be exported")
)

// mode selects what a run produces.
type mode int

const (
	modeIndex mode = iota // outline only
	modeSite              // full site with template
	modeFile              // one page
)

func (m mode) String() string {
	switch m {
	case modeSite:
		return "site"
	case modeFile:
		return "file"
	default:
		return "index"
	}
}

// job is one resolved invocation.
type job struct {
	mode     mode
	src      string
	dest     string
	template string // modeSite only
}

// resolveJob picks the mode from the positional arguments. Two arguments
// with an existing file as source export that file; with anything else they
// build the outline, which reports a missing source itself.
func resolveJob(args []string) (*job, error) {
	switch len(args) {
	case 2:
		j := &job{mode: modeIndex, src: args[0], dest: args[1]}
		if fileutil.FileExists(args[0]) {
			j.mode = modeFile
		}
		return j, nil
	case 3:
		return &job{mode: modeSite, src: args[0], dest: args[1], template: args[2]}, nil
	}
	return nil, fmt.Errorf("%w: expected 2 or 3 arguments, got %d", ErrUsage, len(args))
}

// runMain runs the CLI and returns the process exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, args, env)
	if err == nil || errors.Is(err, context.Canceled) {
		return ExitSuccess
	}

	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, args))
	if errors.Is(err, ErrUsage) {
		fmt.Fprintln(env.Stderr, "Run 'md2site --help' for usage.")
	}
	return exitCodeFor(err)
}

// run parses args and performs one run, or watches when --watch is set.
func run(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if flags.help {
		printUsage(env.Stdout)
		return nil
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "md2site %s\n", Version)
		return nil
	}

	j, err := resolveJob(positional)
	if err != nil {
		return err
	}

	logger := newLogger(env, flags.common)
	warnUnknownEnvVars(logger)

	build := func(ctx context.Context) error {
		return runOnce(ctx, j, flags, env, logger)
	}
	if flags.watch {
		return runWatch(ctx, j, env, flags.common, logger, build)
	}
	return build(ctx)
}

// runOnce loads the configuration and performs a single export.
// Reloading per call lets watch mode pick up template edits.
func runOnce(ctx context.Context, j *job, flags *cliFlags, env *Environment, logger *slog.Logger) error {
	cfg, err := loadConfig(j, flags)
	if err != nil {
		return err
	}

	exp, err := buildExporter(j, cfg, logger)
	if err != nil {
		return err
	}

	logger.Debug("starting export", "mode", j.mode.String(), "src", j.src, "dest", j.dest)
	start := env.Now()
	switch j.mode {
	case modeFile:
		page, err := exp.ExportFile(ctx, j.src, j.dest)
		if err != nil {
			return err
		}
		printf(env, flags.common, "Wrote %s (%s)\n", page, env.Now().Sub(start).Round(time.Millisecond))

	case modeIndex:
		headings, err := exp.BuildIndex(ctx, j.src, j.dest)
		if err != nil {
			return err
		}
		printf(env, flags.common, "Wrote %s (%d headings)\n",
			filepath.Join(j.dest, md2site.IndexName), len(headings))

	case modeSite:
		res, err := exp.ExportSite(ctx, j.src, j.dest)
		if err != nil {
			return err
		}
		printf(env, flags.common, "Exported %d pages, %d assets, %d headings to %s (%s)\n",
			len(res.Pages), res.Assets, res.Headings, j.dest, env.Now().Sub(start).Round(time.Millisecond))
		if len(res.Failures) > 0 {
			for _, f := range res.Failures {
				fmt.Fprintf(env.Stderr, "skipped %s: %v\n", f.Dir, f.Err)
			}
			return fmt.Errorf("%w: %d failed", ErrPartialExport, len(res.Failures))
		}
	}
	return nil
}

// loadConfig reads the template file in site mode, then applies the
// environment and the command-line flags on top.
func loadConfig(j *job, flags *cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if j.mode == modeSite {
		var err error
		cfg, err = config.LoadConfig(j.template)
		if err != nil {
			return nil, fmt.Errorf("loading template: %w", err)
		}
	}

	applyEnvConfig(loadEnvConfig(), cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags copies explicitly set CLI flags into cfg (CLI wins).
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	changed := flags.set
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if changed("theme") {
		cfg.Render.Theme = flags.render.theme
	}
	if changed("code-theme") {
		cfg.Render.CodeTheme = flags.render.codeTheme
	}
	if changed("offline") {
		cfg.Render.Offline = flags.render.offline
	}
	if changed("unsafe") {
		cfg.Render.EnableScriptExecution = flags.render.unsafe
	}
	if changed("anchor-scope") {
		cfg.Index.AnchorScope = flags.index.anchorScope
	}
	if changed("indent") {
		cfg.Index.Indent = flags.index.indent
	}
	if changed("link-ext") {
		cfg.Index.LinkExt = flags.index.linkExt
	}
}

// renderOptions converts the render section of cfg.
func renderOptions(cfg *config.Config) md2site.RenderOptions {
	return md2site.RenderOptions{
		Theme:                 cfg.Render.Theme,
		CodeTheme:             cfg.Render.CodeTheme,
		EnableScriptExecution: cfg.Render.EnableScriptExecution,
		RunAllCodeChunks:      cfg.Render.RunAllCodeChunks,
		Offline:               cfg.Render.Offline,
	}
}

// buildExporter configures an exporter for j. Themes are checked up front
// so a bad name fails before anything is written.
func buildExporter(j *job, cfg *config.Config, logger *slog.Logger) (*md2site.Exporter, error) {
	scope, err := md2site.ParseAnchorScope(cfg.Index.AnchorScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}

	opts := []md2site.Option{
		md2site.WithAnchorScope(scope),
		md2site.WithLinkExt(cfg.Index.LinkExt),
		md2site.WithLogger(logger),
	}
	if indent := cfg.IndentString(); indent != "" {
		opts = append(opts, md2site.WithIndent(indent))
	}

	if j.mode != modeIndex {
		renderOpts := renderOptions(cfg)
		if err := md2site.ValidateRenderOptions(renderOpts); err != nil {
			return nil, err
		}
		opts = append(opts, md2site.WithRenderOptions(renderOpts))
	}
	if j.mode == modeSite {
		opts = append(opts, md2site.WithTemplate(&md2site.Template{
			Head:  cfg.Head,
			Body:  cfg.Body,
			Foot:  cfg.Foot,
			Title: cfg.Title,
		}))
	}
	return md2site.NewExporter(opts...), nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, args []string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		// Bare names are looked up in the search paths; paths are not.
		if _, positional, perr := parseFlags(args); perr == nil && len(positional) == 3 && isConfigName(positional[2]) {
			return hints.ForConfigNotFound(config.SearchPaths(positional[2]))
		}
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, ErrPartialExport):
		return hints.ForSubtreeFailures(1)
	case errors.Is(err, md2site.ErrStyleNotFound):
		return hints.ForStyleNotFound(md2site.ThemeNames())
	case errors.Is(err, md2site.ErrCodeThemeNotFound):
		return hints.ForStyleNotFound(md2site.CodeThemeNames())
	case errors.Is(err, md2site.ErrNotMarkdown):
		return hints.ForNotMarkdown()
	case errors.Is(err, md2site.ErrSourceNotFound):
		return hints.ForSourceNotFound()
	case errors.Is(err, md2site.ErrOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}

// printf writes a progress line to stdout unless --quiet is set.
func printf(env *Environment, f commonFlags, format string, args ...any) {
	if f.quiet {
		return
	}
	fmt.Fprintf(env.Stdout, format, args...)
}

// isConfigName reports whether LoadConfig resolves s through SearchPaths.
func isConfigName(s string) bool {
	return !fileutil.IsFilePath(s) && filepath.Ext(s) == ""
}
