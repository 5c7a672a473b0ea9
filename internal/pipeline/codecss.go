package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultCodeTheme is the Chroma style used when none is configured.
const DefaultCodeTheme = "github"

// ErrCodeThemeNotFound indicates an unknown Chroma style name.
var ErrCodeThemeNotFound = errors.New("code theme not found")

// CodeThemes lists the available Chroma style names, sorted.
func CodeThemes() []string {
	return styles.Names()
}

// CodeThemeCSS returns the stylesheet for class-based highlighting in the
// named Chroma style. An empty name selects DefaultCodeTheme.
func CodeThemeCSS(name string) (string, error) {
	if name == "" {
		name = DefaultCodeTheme
	}
	if !slices.Contains(styles.Names(), name) {
		return "", fmt.Errorf("%w: %q", ErrCodeThemeNotFound, name)
	}

	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(name)); err != nil {
		return "", fmt.Errorf("writing %s code theme: %w", name, err)
	}
	return buf.String(), nil
}
