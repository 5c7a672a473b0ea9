// Package toc builds the site outline: it scans Markdown files for heading
// lines and assembles them into an indented Markdown list.
package toc

import (
	"strings"

	"github.com/alnah/go-md2site/internal/slug"
)

// Heading is one heading occurrence in a Markdown file.
type Heading struct {
	Level  int    // number of leading '#' characters, >= 1
	Text   string // label shown in the outline
	Anchor string // fragment id, unique within the collision table's scope
	Source string // file path relative to the scanned root, without ".md"
}

// directives look like headings but are C preprocessor lines pasted into
// Markdown without a fence.
var directives = []string{
	"#define",
	"#undef",
	"#ifndef",
	"#endif",
	"#ifdef",
	"#else",
}

// ScanHeadings extracts headings from Markdown content in document order.
// Anchors are resolved against t; Source is left for the caller to fill in.
func ScanHeadings(content string, t *slug.Table) []Heading {
	var headings []Heading
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if isDirective(line) || !strings.HasPrefix(line, "#") {
			continue
		}

		headings = append(headings, Heading{
			Level:  headingLevel(line),
			Text:   strings.TrimSpace(strings.ReplaceAll(line, "#", "")),
			Anchor: slug.Slugify(line, t),
		})
	}
	return headings
}

func isDirective(line string) bool {
	for _, d := range directives {
		if strings.HasPrefix(line, d) {
			return true
		}
	}
	return false
}

// headingLevel counts the leading run of '#' only, so "# C# tips" is level 1.
func headingLevel(line string) int {
	return len(line) - len(strings.TrimLeft(line, "#"))
}
