// Package md2site converts a directory of Markdown documents into a static
// HTML site.
//
// # Quick Start
//
//	exp := md2site.NewExporter()
//	res, err := exp.ExportSite(ctx, "docs", "site")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range res.Failures {
//	    log.Printf("skipped %s: %v", f.Dir, f.Err)
//	}
//
// # Export Pipeline
//
// ExportSite walks the source tree directory by directory:
//
//  1. every file is copied to the same relative path under the destination
//  2. each Markdown copy is rendered next to itself (guide.md -> guide.html)
//  3. subdirectories follow, each in isolation: a failure inside one is
//     recorded in Result.Failures and its siblings still export
//  4. an outline of every heading is written to index.md and rendered
//  5. with a template configured, its head/body/foot fragments and title are
//     injected into every page
//
// Rendering itself follows these stages:
//
//  1. front matter split (title, description)
//  2. Markdown preprocessing (line normalization, ==highlight== syntax)
//  3. Markdown to HTML conversion via Goldmark (GFM, footnotes, Chroma)
//  4. relative .md links rewritten to .html
//  5. theme and code-theme CSS, inlined or linked
//
// # Anchors
//
// Heading anchors come from one slugifier shared by the outline and the
// renderer. By default the outline resolves collisions across the whole
// run, so two "Install" headings in different files link to "install" and
// "install-1". WithAnchorScope(AnchorScopeFile) restarts the collision table
// per file, which matches the ids a page gets when rendered on its own.
//
// # Configuration
//
// Use functional options to customize the exporter:
//
//	exp := md2site.NewExporter(
//	    md2site.WithRenderOptions(md2site.RenderOptions{Theme: "github-dark", Offline: true}),
//	    md2site.WithTemplate(&md2site.Template{Title: "Handbook"}),
//	    md2site.WithLinkExt(".html"),
//	    md2site.WithLogger(slog.Default()),
//	)
//
// # Error Handling
//
// The library uses sentinel errors for common failure cases:
//
//	_, err := exp.ExportSite(ctx, src, dest)
//	if errors.Is(err, md2site.ErrSourceNotFound) {
//	    // nothing was written
//	}
//
// Available sentinel errors: ErrSourceNotFound, ErrNotMarkdown, ErrOutputDir,
// ErrRender, ErrIndex, ErrTemplateInject, ErrStyleNotFound,
// ErrCodeThemeNotFound.
package md2site
