package md2site

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alnah/go-md2site/internal/toc"
)

// RenderOptions controls how each page is rendered.
type RenderOptions struct {
	Theme                 string // embedded theme name or CSS file path, "" = github-light
	CodeTheme             string // Chroma style name, "" = github
	EnableScriptExecution bool   // keep raw HTML, including <script>
	RunAllCodeChunks      bool   // accepted for compatibility; code is never executed
	Offline               bool   // inline all CSS instead of linking a stylesheet
}

// Template holds the site-wide fragments injected into every page.
type Template struct {
	Head  string // inserted at the start of <head>
	Body  string // inserted at the start of <body>
	Foot  string // appended at the end of <body>
	Title string // page title prefix: "{Title} - {first h1}"
}

// Heading is one outline entry.
type Heading struct {
	Level  int
	Text   string
	Anchor string
	Source string // slash-separated path relative to the outline root, without ".md"
}

// SubtreeFailure records a directory that could not be exported.
type SubtreeFailure struct {
	Dir string // relative to the source root
	Err error
}

// Result summarizes an export.
type Result struct {
	Pages    []string // generated HTML files, in render order
	Assets   int      // non-Markdown files copied
	Index    string   // path of the generated index.md
	Headings int      // outline entries
	Failures []SubtreeFailure
}

// AnchorScope selects how long the anchor collision table lives while
// building the outline.
type AnchorScope int

const (
	// AnchorScopeRun shares one table across every file of a build.
	AnchorScopeRun AnchorScope = iota
	// AnchorScopeFile starts a fresh table per file.
	AnchorScopeFile
)

// String returns the flag spelling of s.
func (s AnchorScope) String() string {
	return s.toc().String()
}

func (s AnchorScope) toc() toc.Scope {
	if s == AnchorScopeFile {
		return toc.ScopeFile
	}
	return toc.ScopeRun
}

// ParseAnchorScope accepts "run" or "file" (case-insensitive, empty means run).
func ParseAnchorScope(s string) (AnchorScope, error) {
	scope, err := toc.ParseScope(s)
	if err != nil {
		return AnchorScopeRun, err
	}
	if scope == toc.ScopeFile {
		return AnchorScopeFile, nil
	}
	return AnchorScopeRun, nil
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRenderer replaces the page renderer.
func WithRenderer(r Renderer) Option {
	return func(e *Exporter) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithRenderOptions sets the options passed to every render.
func WithRenderOptions(opts RenderOptions) Option {
	return func(e *Exporter) {
		e.renderOpts = opts
	}
}

// WithTemplate enables template injection. A nil template disables it.
func WithTemplate(t *Template) Option {
	return func(e *Exporter) {
		e.template = t
	}
}

// WithAnchorScope sets the outline collision scope.
func WithAnchorScope(s AnchorScope) Option {
	return func(e *Exporter) {
		e.scope = s
	}
}

// WithIndent sets the outline indentation unit (default two spaces).
// Panics if indent contains anything but spaces or tabs (programmer error).
func WithIndent(indent string) Option {
	if strings.Trim(indent, " \t") != "" {
		panic(fmt.Sprintf("md2site: WithIndent %q must contain only spaces or tabs", indent))
	}
	return func(e *Exporter) {
		e.indent = indent
	}
}

// WithLinkExt sets the suffix appended to outline link paths, e.g. ".html".
func WithLinkExt(ext string) Option {
	return func(e *Exporter) {
		e.linkExt = ext
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}
