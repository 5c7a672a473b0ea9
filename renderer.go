package md2site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/pipeline"
)

// StylesheetName is the stylesheet written next to pages when CSS is linked
// rather than inlined.
const StylesheetName = "md2site.css"

// Renderer turns one Markdown file into an HTML page inside destDir and
// returns the page path.
type Renderer interface {
	Render(ctx context.Context, src, destDir string, opts RenderOptions) (string, error)
}

// Compile-time interface checks.
var (
	_ Renderer                      = (*PageRenderer)(nil)
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
)

// PageRenderer renders pages with goldmark and the embedded themes.
type PageRenderer struct {
	loader       assets.StyleLoader
	preprocessor pipeline.MarkdownPreprocessor
	safe         pipeline.HTMLConverter // raw HTML omitted
	raw          pipeline.HTMLConverter // raw HTML kept
	cssInjector  pipeline.CSSInjector

	mu  sync.Mutex
	css map[[2]string]string // (theme, code theme) -> stylesheet
}

// NewPageRenderer creates a PageRenderer.
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{
		loader:       assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		safe:         pipeline.NewGoldmarkConverter(),
		raw:          pipeline.NewGoldmarkConverter(pipeline.WithRawHTML()),
		cssInjector:  &pipeline.CSSInjection{},
		css:          make(map[[2]string]string),
	}
}

// Render converts src to destDir/<name>.html.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *PageRenderer) Render(ctx context.Context, src, destDir string, opts RenderOptions) (htmlPath string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrRender, rec)
		}
	}()

	content, err := os.ReadFile(src) // #nosec G304 -- file inside the output tree
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	meta, body, err := pipeline.SplitFrontMatter(string(content))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, src, err)
	}

	body = r.preprocessor.PreprocessMarkdown(ctx, body)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	converter := r.safe
	if opts.EnableScriptExecution {
		converter = r.raw
	}
	fragment, err := converter.ToHTML(ctx, body)
	if err != nil {
		return "", fmt.Errorf("%w: converting %s: %w", ErrRender, src, err)
	}

	// Completes the ==text== feature started in preprocessing.
	fragment = pipeline.ConvertMarkPlaceholders(fragment)

	fragment, err = pipeline.RewriteMarkdownLinks(fragment)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting links in %s: %v", ErrRender, src, err)
	}

	name := fileutil.SwapExt(filepath.Base(src), "")
	title := meta.Title
	if title == "" {
		title = pipeline.FirstHeadingText(fragment)
	}
	if title == "" {
		title = name
	}
	page := pipeline.WrapDocument(pipeline.Page{
		Title:       title,
		Description: meta.Description,
		Body:        fragment,
	})

	css, err := r.stylesheet(opts.Theme, opts.CodeTheme)
	if err != nil {
		return "", err
	}
	if opts.Offline {
		page = r.cssInjector.InjectCSS(ctx, page, css)
	} else {
		if err := fileutil.WriteFileAtomic(filepath.Join(destDir, StylesheetName), []byte(css)); err != nil {
			return "", fmt.Errorf("%w: writing stylesheet: %v", ErrRender, err)
		}
		page = r.cssInjector.LinkCSS(ctx, page, StylesheetName)
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	htmlPath = filepath.Join(destDir, fileutil.SwapExt(filepath.Base(src), ".html"))
	if err := fileutil.WriteFileAtomic(htmlPath, []byte(page)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return htmlPath, nil
}

// stylesheet returns the theme CSS followed by the code theme CSS, cached
// per pair.
func (r *PageRenderer) stylesheet(theme, codeTheme string) (string, error) {
	key := [2]string{theme, codeTheme}

	r.mu.Lock()
	defer r.mu.Unlock()

	if css, ok := r.css[key]; ok {
		return css, nil
	}

	themeCSS, err := assets.ResolveTheme(r.loader, theme)
	if err != nil {
		return "", fmt.Errorf("loading theme %q: %w", theme, err)
	}
	codeCSS, err := pipeline.CodeThemeCSS(codeTheme)
	if err != nil {
		return "", fmt.Errorf("loading code theme: %w", err)
	}

	css := themeCSS + "\n" + codeCSS
	r.css[key] = css
	return css, nil
}

// ThemeNames lists the embedded theme names.
func ThemeNames() []string {
	return assets.NewEmbeddedLoader().Names()
}

// CodeThemeNames lists the available code highlighting themes.
func CodeThemeNames() []string {
	return pipeline.CodeThemes()
}

// ValidateRenderOptions reports whether the theme and code theme in opts
// resolve, so a bad name fails before any file is written.
func ValidateRenderOptions(opts RenderOptions) error {
	_, err := NewPageRenderer().stylesheet(opts.Theme, opts.CodeTheme)
	return err
}
