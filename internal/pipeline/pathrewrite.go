package pipeline

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// RewriteMarkdownLinks points relative links to Markdown documents at the
// pages generated from them: "guide.md#setup" becomes "guide.html#setup".
//
// Only a[href] is rewritten. URLs with a scheme, protocol-relative URLs,
// absolute paths and bare fragments are left alone.
func RewriteMarkdownLinks(htmlContent string) (string, error) {
	if !strings.Contains(htmlContent, ".md") {
		return htmlContent, nil
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for i, attr := range n.Attr {
			if attr.Key == "href" {
				n.Attr[i].Val = rewriteHref(attr.Val)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c)
	}
}

// rewriteHref swaps a trailing ".md" in the path part of a relative href.
func rewriteHref(href string) string {
	if !isRelativePath(href) {
		return href
	}

	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || path.Ext(u.Path) != ".md" {
		return href
	}

	cut := len(href)
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		cut = i
	}
	base, rest := href[:cut], href[cut:]
	if !strings.HasSuffix(base, ".md") {
		return href
	}
	return strings.TrimSuffix(base, ".md") + ".html" + rest
}

// isRelativePath returns true if the path may point into the site tree.
func isRelativePath(p string) bool {
	if p == "" || fileutil.IsURL(p) {
		return false
	}
	if strings.HasPrefix(p, "#") || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return false
	}
	return true
}
