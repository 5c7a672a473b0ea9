package pipeline

// Notes:
// - InjectTemplate assertions use substring checks: x/net/html normalizes
//   the document on render, so exact output is not stable across versions
// - CSS injection is string based and keeps the exact-match table

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// CSS injection
// ---------------------------------------------------------------------------

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no escape needed",
			input:    "body { color: red; }",
			expected: "body { color: red; }",
		},
		{
			name:     "escapes style close",
			input:    "</style>",
			expected: `<\/style>`,
		},
		{
			name:     "escapes script close",
			input:    "</script>",
			expected: `<\/script>`,
		},
		{
			name:     "multiple occurrences",
			input:    "</a></b>",
			expected: `<\/a><\/b>`,
		},
		{
			name:     "nested sequences",
			input:    "</</style>",
			expected: `<\/<\/style>`,
		},
		{
			name:     "case variation STYLE",
			input:    "</STYLE>",
			expected: `<\/STYLE>`,
		},
		{
			name:     "case variation Script",
			input:    "</Script>",
			expected: `<\/Script>`,
		},
		{
			name:     "mixed case sTyLe",
			input:    "</sTyLe>",
			expected: `<\/sTyLe>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizeCSS(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "empty CSS returns HTML unchanged",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      "",
			expected: "<html><head></head><body>Hello</body></html>",
		},
		{
			name:     "injects before </head>",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      "body { color: red; }",
			expected: "<html><head><style>body { color: red; }</style></head><body>Hello</body></html>",
		},
		{
			name:     "injects before </HEAD> mixed case",
			html:     "<html><HEAD></HEAD><body>Hello</body></html>",
			css:      "body { color: red; }",
			expected: "<html><HEAD><style>body { color: red; }</style></HEAD><body>Hello</body></html>",
		},
		{
			name:     "injects after <body> when no </head>",
			html:     "<html><body>Hello</body></html>",
			css:      "body { color: red; }",
			expected: "<html><body><style>body { color: red; }</style>Hello</body></html>",
		},
		{
			name:     "injects after <body> with attributes",
			html:     `<html><body class="main" id="app">Hello</body></html>`,
			css:      "body { color: red; }",
			expected: `<html><body class="main" id="app"><style>body { color: red; }</style>Hello</body></html>`,
		},
		{
			name:     "injects after <BODY> mixed case",
			html:     "<html><BODY>Hello</BODY></html>",
			css:      "body { color: red; }",
			expected: "<html><BODY><style>body { color: red; }</style>Hello</BODY></html>",
		},
		{
			name:     "prepends to bare fragment",
			html:     "<p>Hello</p>",
			css:      "p { color: blue; }",
			expected: "<style>p { color: blue; }</style><p>Hello</p>",
		},
		{
			name:     "sanitizes CSS with closing tags",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      "</style><script>alert('xss')</script>",
			expected: `<html><head><style><\/style><script>alert('xss')<\/script></style></head><body>Hello</body></html>`,
		},
		{
			name:     "unicode in CSS content property",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      `.icon::before { content: ""; }`,
			expected: `<html><head><style>.icon::before { content: ""; }</style></head><body>Hello</body></html>`,
		},
		{
			name:     "unicode in HTML preserved",
			html:     "<html><head></head><body>Bonjour le monde</body></html>",
			css:      "body { color: red; }",
			expected: "<html><head><style>body { color: red; }</style></head><body>Bonjour le monde</body></html>",
		},
	}

	injector := &CSSInjection{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			got := injector.InjectCSS(ctx, tt.html, tt.css)
			if got != tt.expected {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	injector := &CSSInjection{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	html := "<html><head></head><body>Hello</body></html>"
	css := "body { color: red; }"

	// When context is cancelled, returns HTML unchanged
	got := injector.InjectCSS(ctx, html, css)
	if got != html {
		t.Errorf("InjectCSS() with cancelled context should return HTML unchanged, got %q", got)
	}
}

func TestLinkCSS(t *testing.T) {
	t.Parallel()

	injector := &CSSInjection{}
	ctx := context.Background()

	got := injector.LinkCSS(ctx, "<html><head></head><body></body></html>", "md2site.css")
	want := `<html><head><link rel="stylesheet" href="md2site.css"></head><body></body></html>`
	if got != want {
		t.Errorf("LinkCSS() = %q, want %q", got, want)
	}

	got = injector.LinkCSS(ctx, "<head></head>", `a"b.css`)
	if !strings.Contains(got, `href="a&#34;b.css"`) {
		t.Errorf("LinkCSS() did not escape href: %q", got)
	}

	if got := injector.LinkCSS(ctx, "<head></head>", ""); got != "<head></head>" {
		t.Errorf("LinkCSS(empty href) = %q, want unchanged", got)
	}
}

// ---------------------------------------------------------------------------
// Template injection
// ---------------------------------------------------------------------------

const samplePage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>guide</title>
</head>
<body>
<article><h1>Getting <em>Started</em></h1><p>text</p><h1>Second</h1></article>
</body>
</html>`

func TestInjectTemplate(t *testing.T) {
	t.Parallel()

	injector := NewTemplateInjection()
	data := &TemplateData{
		Head:  `<link rel="icon" href="/favicon.ico">`,
		Body:  `<nav id="top">Docs</nav>`,
		Foot:  `<footer id="bottom">Bye</footer>`,
		Title: "Handbook",
	}

	got, err := injector.InjectTemplate(context.Background(), samplePage, data)
	if err != nil {
		t.Fatalf("InjectTemplate() error = %v", err)
	}

	checks := []struct {
		name  string
		first string
		then  string
	}{
		{"head fragment at start of head", `<head><link rel="icon" href="/favicon.ico"/>`, `<meta charset="utf-8"/>`},
		{"body fragment at start of body", `<body><nav id="top">Docs</nav>`, `<article>`},
		{"foot fragment at end of body", `</article>`, `<footer id="bottom">Bye</footer>`},
		{"foot before closing body", `<footer id="bottom">Bye</footer>`, `</body>`},
	}
	for _, c := range checks {
		i, j := strings.Index(got, c.first), strings.Index(got, c.then)
		if i < 0 || j < 0 || i > j {
			t.Errorf("%s: want %q before %q in\n%s", c.name, c.first, c.then, got)
		}
	}

	if !strings.Contains(got, "<title>Handbook - Getting Started</title>") {
		t.Errorf("title not composed from first h1:\n%s", got)
	}
	if strings.Count(got, "<title>") != 1 {
		t.Errorf("want exactly one <title>:\n%s", got)
	}
}

func TestInjectTemplate_TitleRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		page      string
		siteTitle string
		want      string
	}{
		{
			name:      "site title and heading",
			page:      "<html><head><title>x</title></head><body><h1>Intro</h1></body></html>",
			siteTitle: "Site",
			want:      "<title>Site - Intro</title>",
		},
		{
			name:      "site title without heading",
			page:      "<html><head><title>x</title></head><body><p>no heading</p></body></html>",
			siteTitle: "Site",
			want:      "<title>Site</title>",
		},
		{
			name:      "heading without site title",
			page:      "<html><head><title>x</title></head><body><h1>Intro</h1></body></html>",
			siteTitle: "",
			want:      "<title>Intro</title>",
		},
		{
			name:      "neither keeps existing title",
			page:      "<html><head><title>keep</title></head><body><h2>Sub</h2></body></html>",
			siteTitle: "",
			want:      "<title>keep</title>",
		},
		{
			name:      "missing title element is created",
			page:      "<html><head></head><body><h1>Intro</h1></body></html>",
			siteTitle: "Site",
			want:      "<title>Site - Intro</title>",
		},
		{
			name:      "banner h1 in body fragment is ignored",
			page:      "<html><head></head><body><p>x</p></body></html>",
			siteTitle: "Site",
			want:      "<title>Site</title>",
		},
	}

	injector := NewTemplateInjection()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := &TemplateData{Title: tt.siteTitle}
			if strings.Contains(tt.name, "banner") {
				data.Body = "<h1>Banner</h1>"
			}
			got, err := injector.InjectTemplate(context.Background(), tt.page, data)
			if err != nil {
				t.Fatalf("InjectTemplate() error = %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("got\n%s\nwant substring %q", got, tt.want)
			}
		})
	}
}

func TestInjectTemplate_NilData(t *testing.T) {
	t.Parallel()

	got, err := NewTemplateInjection().InjectTemplate(context.Background(), samplePage, nil)
	if err != nil || got != samplePage {
		t.Errorf("InjectTemplate(nil) = %q, %v; want input unchanged", got, err)
	}
}

func TestInjectTemplate_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTemplateInjection().InjectTemplate(ctx, samplePage, &TemplateData{Title: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("InjectTemplate() error = %v, want context.Canceled", err)
	}
}

func TestComposeTitle(t *testing.T) {
	t.Parallel()

	tests := []struct{ site, heading, want string }{
		{"Site", "Page", "Site - Page"},
		{"Site", "", "Site"},
		{"", "Page", "Page"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := ComposeTitle(tt.site, tt.heading); got != tt.want {
			t.Errorf("ComposeTitle(%q, %q) = %q, want %q", tt.site, tt.heading, got, tt.want)
		}
	}
}

func TestFirstHeadingText(t *testing.T) {
	t.Parallel()

	tests := []struct{ html, want string }{
		{`<h2>Sub</h2><h1 id="a">Main  <code>x</code></h1>`, "Main x"},
		{`<p>none</p>`, ""},
		{samplePage, "Getting Started"},
	}
	for _, tt := range tests {
		if got := FirstHeadingText(tt.html); got != tt.want {
			t.Errorf("FirstHeadingText(%.20q) = %q, want %q", tt.html, got, tt.want)
		}
	}
}
