package assets

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "github-light"

// StyleLoader loads CSS themes by name.
type StyleLoader interface {
	// LoadStyle returns the CSS of a theme (name without .css extension).
	LoadStyle(name string) (string, error)
}

// ResolveTheme returns the CSS for theme, which is either a theme name known
// to loader or a path to a CSS file. An empty theme selects DefaultTheme.
func ResolveTheme(loader StyleLoader, theme string) (string, error) {
	if theme == "" {
		theme = DefaultTheme
	}

	if fileutil.IsFilePath(theme) {
		content, err := os.ReadFile(theme) // #nosec G304 -- user-provided theme file
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %q", ErrStyleNotFound, theme)
			}
			return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		return string(content), nil
	}

	return loader.LoadStyle(theme)
}

// ValidateAssetName checks that a theme name is safe to use as a file name.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
