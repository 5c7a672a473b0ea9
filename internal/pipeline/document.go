package pipeline

import (
	"fmt"
	"html"
)

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
%s</head>
<body>
<article class="markdown-body">
%s
</article>
</body>
</html>
`

// Page is the content of one generated document.
type Page struct {
	Title       string
	Description string
	Body        string // HTML fragment
}

// WrapDocument returns p as a standalone HTML5 document.
func WrapDocument(p Page) string {
	meta := ""
	if p.Description != "" {
		meta = `<meta name="description" content="` + html.EscapeString(p.Description) + "\">\n"
	}
	return fmt.Sprintf(htmlTemplate, html.EscapeString(p.Title), meta, p.Body)
}
