package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrTemplateInject indicates a page could not be parsed or re-rendered
// while injecting the site template.
var ErrTemplateInject = errors.New("template injection failed")

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
	LinkCSS(ctx context.Context, htmlContent, href string) string
}

// CSSInjection injects CSS into HTML content, either inline or as a link.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}
	return insertInHead(htmlContent, "<style>"+sanitizeCSS(cssContent)+"</style>")
}

// LinkCSS inserts a <link rel="stylesheet"> pointing at href.
func (s *CSSInjection) LinkCSS(ctx context.Context, htmlContent, href string) string {
	if href == "" || ctx.Err() != nil {
		return htmlContent
	}
	return insertInHead(htmlContent, `<link rel="stylesheet" href="`+html.EscapeString(href)+`">`)
}

func insertInHead(htmlContent, block string) string {
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + block + htmlContent[insertPos:]
		}
	}

	return block + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// TemplateData holds the site-wide fragments injected into every page.
type TemplateData struct {
	Head  string // inserted at the start of <head>
	Body  string // inserted at the start of <body>
	Foot  string // appended at the end of <body>
	Title string // page title prefix
}

// TemplateInjector defines the contract for site template injection.
type TemplateInjector interface {
	InjectTemplate(ctx context.Context, htmlContent string, data *TemplateData) (string, error)
}

// TemplateInjection injects site templates on the parsed DOM.
type TemplateInjection struct{}

// NewTemplateInjection creates a new template injector.
func NewTemplateInjection() *TemplateInjection {
	return &TemplateInjection{}
}

// InjectTemplate inserts the fragments of data into a full HTML document and
// sets its <title> from data.Title and the page's first h1.
// If data is nil, returns htmlContent unchanged.
func (t *TemplateInjection) InjectTemplate(ctx context.Context, htmlContent string, data *TemplateData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := nethtml.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateInject, err)
	}
	head := findElement(doc, atom.Head)
	body := findElement(doc, atom.Body)
	if head == nil || body == nil {
		return "", fmt.Errorf("%w: document has no head or body", ErrTemplateInject)
	}

	// The heading is read before fragments are added, so a banner h1 in the
	// body fragment never names the page.
	h1 := ""
	if n := findElement(body, atom.H1); n != nil {
		h1 = textContent(n)
	}

	if err := prependFragment(head, data.Head); err != nil {
		return "", err
	}
	if err := prependFragment(body, data.Body); err != nil {
		return "", err
	}
	if err := appendFragment(body, data.Foot); err != nil {
		return "", err
	}

	if title := ComposeTitle(data.Title, h1); title != "" {
		setTitle(head, title)
	}

	return renderHTML(doc, false)
}

// ComposeTitle joins the site title and page heading as "site - heading".
// Either part may be empty, in which case the other is used alone.
func ComposeTitle(siteTitle, heading string) string {
	switch {
	case siteTitle != "" && heading != "":
		return siteTitle + " - " + heading
	case siteTitle != "":
		return siteTitle
	default:
		return heading
	}
}

// FirstHeadingText returns the text of the first h1 in htmlContent, or "".
func FirstHeadingText(htmlContent string) string {
	doc, _, err := parseHTML(htmlContent)
	if err != nil {
		return ""
	}
	if n := findElement(doc, atom.H1); n != nil {
		return textContent(n)
	}
	return ""
}

func parseFragmentIn(parent *nethtml.Node, fragment string) ([]*nethtml.Node, error) {
	ctxNode := &nethtml.Node{Type: nethtml.ElementNode, DataAtom: parent.DataAtom, Data: parent.Data}
	nodes, err := nethtml.ParseFragment(strings.NewReader(fragment), ctxNode)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s fragment: %v", ErrTemplateInject, parent.Data, err)
	}
	return nodes, nil
}

func prependFragment(parent *nethtml.Node, fragment string) error {
	if fragment == "" {
		return nil
	}
	nodes, err := parseFragmentIn(parent, fragment)
	if err != nil {
		return err
	}
	first := parent.FirstChild
	for _, n := range nodes {
		parent.InsertBefore(n, first)
	}
	return nil
}

func appendFragment(parent *nethtml.Node, fragment string) error {
	if fragment == "" {
		return nil
	}
	nodes, err := parseFragmentIn(parent, fragment)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

func setTitle(head *nethtml.Node, title string) {
	n := findElement(head, atom.Title)
	if n == nil {
		n = &nethtml.Node{Type: nethtml.ElementNode, DataAtom: atom.Title, Data: "title"}
		head.AppendChild(n)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&nethtml.Node{Type: nethtml.TextNode, Data: title})
}

// findElement returns the first element with tag a in document order.
func findElement(n *nethtml.Node, a atom.Atom) *nethtml.Node {
	if n.Type == nethtml.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates the text below n with whitespace collapsed.
func textContent(n *nethtml.Node) string {
	var b strings.Builder
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

var (
	_ CSSInjector      = (*CSSInjection)(nil)
	_ TemplateInjector = (*TemplateInjection)(nil)
)
