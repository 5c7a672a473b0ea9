package md2site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/toc"
	"github.com/alnah/go-md2site/internal/walk"
)

// File permission constants.
const dirPermissions = 0o750

// IndexName is the outline document written at the destination root.
const IndexName = toc.IndexName

// Exporter orchestrates site exports. It is safe to reuse across exports
// but not to run two exports of the same tree at once.
type Exporter struct {
	renderer   Renderer
	injector   pipeline.TemplateInjector
	renderOpts RenderOptions
	template   *Template
	scope      AnchorScope
	indent     string
	linkExt    string
	logger     *slog.Logger
}

// NewExporter creates an Exporter with the default page renderer.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		renderer: NewPageRenderer(),
		injector: pipeline.NewTemplateInjection(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportSite renders srcRoot into destRoot, writes and renders the outline,
// and injects the template if one is configured.
//
// A missing srcRoot returns ErrSourceNotFound before anything is written.
// Failures inside subdirectories are isolated and listed in
// Result.Failures; a failure on a file at the top level aborts the export
// and is returned along with the partial result.
func (e *Exporter) ExportSite(ctx context.Context, srcRoot, destRoot string) (*Result, error) {
	if !fileutil.DirExists(srcRoot) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, srcRoot)
	}
	absSrc, err := filepath.Abs(srcRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", ErrSourceNotFound, srcRoot, err)
	}
	absDest, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", ErrOutputDir, destRoot, err)
	}
	if err := os.MkdirAll(destRoot, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	if e.renderOpts.RunAllCodeChunks {
		e.logger.Debug("runAllCodeChunks has no effect: code blocks are never executed")
	}

	e.logger.Info("exporting site", "src", srcRoot, "dest", destRoot)
	res := &Result{}

	if err := walk.Walk(ctx, srcRoot, e.mirror(srcRoot, destRoot, absSrc, absDest, res)); err != nil {
		return res, err
	}

	outline, err := e.BuildIndex(ctx, destRoot, destRoot)
	if err != nil {
		return res, err
	}
	res.Index = filepath.Join(destRoot, IndexName)
	res.Headings = len(outline)

	page, err := e.renderer.Render(ctx, res.Index, destRoot, e.renderOpts)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrRender, IndexName, err)
	}
	res.Pages = append(res.Pages, page)

	if err := e.Inject(ctx, destRoot); err != nil {
		return res, err
	}

	e.logger.Info("site exported",
		"pages", len(res.Pages), "assets", res.Assets,
		"headings", res.Headings, "failures", len(res.Failures))
	return res, nil
}

// mirror returns the visitor that copies and renders the source tree.
// absSrc and absDest locate a destination nested inside the source.
func (e *Exporter) mirror(srcRoot, destRoot, absSrc, absDest string, res *Result) walk.Visitor {
	return walk.Funcs{
		OnFile: func(ctx context.Context, rel string, _ fs.DirEntry) error {
			src := filepath.Join(srcRoot, rel)
			dst := filepath.Join(destRoot, rel)
			if err := fileutil.CopyFile(src, dst); err != nil {
				return err
			}
			if !fileutil.IsMarkdown(rel) {
				res.Assets++
				return nil
			}

			page, err := e.renderer.Render(ctx, dst, filepath.Dir(dst), e.renderOpts)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrRender, err)
			}
			e.logger.Debug("rendered page", "path", page)
			res.Pages = append(res.Pages, page)
			return nil
		},
		OnEnterDir: func(_ context.Context, rel string) error {
			if filepath.Join(absSrc, rel) == absDest {
				e.logger.Debug("skipping output directory inside source", "dir", rel)
				return walk.SkipDir
			}
			return os.MkdirAll(filepath.Join(destRoot, rel), dirPermissions)
		},
		OnSubtreeFailed: func(rel string, err error) {
			e.logger.Warn("subtree export failed", "dir", rel, "err", err)
			res.Failures = append(res.Failures, SubtreeFailure{Dir: rel, Err: err})
		},
	}
}

// BuildIndex writes destDir/index.md with the outline of every Markdown
// file under root and returns its entries.
func (e *Exporter) BuildIndex(ctx context.Context, root, destDir string) ([]Heading, error) {
	if !fileutil.DirExists(root) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, root)
	}

	b := &toc.Builder{Indent: e.indent, Scope: e.scope.toc(), LinkExt: e.linkExt}
	outline, err := b.Write(ctx, root, destDir)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrIndex, err)
	}
	e.logger.Debug("index written", "path", filepath.Join(destDir, IndexName), "headings", len(outline))

	headings := make([]Heading, len(outline))
	for i, h := range outline {
		headings[i] = Heading{Level: h.Level, Text: h.Text, Anchor: h.Anchor, Source: h.Source}
	}
	return headings, nil
}

// ExportFile renders a single Markdown file into destDir, copying the
// non-Markdown files next to it so relative images resolve, and injects the
// template if one is configured. It returns the page path.
func (e *Exporter) ExportFile(ctx context.Context, mdPath, destDir string) (string, error) {
	if !fileutil.FileExists(mdPath) {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, mdPath)
	}
	if !fileutil.IsMarkdown(mdPath) {
		return "", fmt.Errorf("%w: %s", ErrNotMarkdown, mdPath)
	}
	if err := os.MkdirAll(destDir, dirPermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	if err := e.copySiblingAssets(filepath.Dir(mdPath), destDir); err != nil {
		return "", err
	}

	dst := filepath.Join(destDir, filepath.Base(mdPath))
	if err := fileutil.CopyFile(mdPath, dst); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	page, err := e.renderer.Render(ctx, dst, destDir, e.renderOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := e.injectFile(ctx, page); err != nil {
		return page, fmt.Errorf("%w: %w", ErrTemplateInject, err)
	}
	e.logger.Info("page exported", "path", page)
	return page, nil
}

func (e *Exporter) copySiblingAssets(srcDir, destDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || fileutil.IsMarkdown(entry.Name()) {
			continue
		}
		if err := fileutil.CopyFile(filepath.Join(srcDir, entry.Name()), filepath.Join(destDir, entry.Name())); err != nil {
			return fmt.Errorf("%w: %v", ErrOutputDir, err)
		}
	}
	return nil
}

// Inject applies the configured template to every .html file under
// destRoot. Without a template it does nothing. Every file is attempted;
// the failures are joined.
func (e *Exporter) Inject(ctx context.Context, destRoot string) error {
	if e.template == nil {
		return nil
	}

	var errs []error
	err := filepath.WalkDir(destRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.injectFile(ctx, path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrTemplateInject, errors.Join(errs...))
	}
	e.logger.Debug("template injected", "dir", destRoot)
	return nil
}

func (e *Exporter) injectFile(ctx context.Context, path string) error {
	if e.template == nil {
		return nil
	}

	content, err := os.ReadFile(path) // #nosec G304 -- page inside the output tree
	if err != nil {
		return err
	}
	out, err := e.injector.InjectTemplate(ctx, string(content), &pipeline.TemplateData{
		Head:  e.template.Head,
		Body:  e.template.Body,
		Foot:  e.template.Foot,
		Title: e.template.Title,
	})
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, []byte(out))
}
