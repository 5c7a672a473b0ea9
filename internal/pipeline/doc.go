// Package pipeline implements the stages that turn one Markdown file into
// one standalone HTML page.
//
// Stages, in the order the page renderer applies them:
//   - front matter split (title and description)
//   - Markdown preprocessing (line normalization, highlight syntax)
//   - Markdown to HTML conversion via Goldmark, with heading ids from
//     internal/slug and Chroma class-based highlighting
//   - relative .md link rewriting to .html
//   - document wrapping and CSS injection (inline or linked)
//   - site template injection (head, body, foot fragments and title)
//
// File discovery, output layout and the outline live elsewhere; every stage
// here works on strings and is independent of the file system.
package pipeline
