// Package config loads the site template file: the head/body/foot fragments
// injected into every page, the title prefix, and render and index settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxFragmentLength  = 64 << 10 // head, body, foot markup
	MaxTitleLength     = 200
	MaxThemeLength     = 4096 // theme name or CSS file path
	MaxCodeThemeLength = 50   // chroma style name
	MaxLinkExtLength   = 16
	MaxIndent          = 8
)

// Config holds the site template and build settings.
type Config struct {
	Head   string       `yaml:"head"`  // inserted at the start of <head>
	Body   string       `yaml:"body"`  // inserted at the start of <body>
	Foot   string       `yaml:"foot"`  // appended at the end of <body>
	Title  string       `yaml:"title"` // page title prefix
	Render RenderConfig `yaml:"render"`
	Index  IndexConfig  `yaml:"index"`
}

// RenderConfig mirrors the renderer options.
type RenderConfig struct {
	Theme                 string `yaml:"theme"`     // embedded theme name or CSS path
	CodeTheme             string `yaml:"codeTheme"` // chroma style name
	EnableScriptExecution bool   `yaml:"enableScriptExecution"`
	RunAllCodeChunks      bool   `yaml:"runAllCodeChunks"`
	Offline               bool   `yaml:"offline"`
}

// IndexConfig controls the generated outline.
type IndexConfig struct {
	Indent      int    `yaml:"indent"`      // spaces per level, 0 = default
	AnchorScope string `yaml:"anchorScope"` // "run" or "file"
	LinkExt     string `yaml:"linkExt"`     // e.g. ".html"
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for library users
// who construct Config manually.
func (c *Config) Validate() error {
	fragments := []struct {
		name  string
		value string
	}{
		{"head", c.Head},
		{"body", c.Body},
		{"foot", c.Foot},
	}
	for _, f := range fragments {
		if err := validateFieldLength(f.name, f.value, MaxFragmentLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("title", c.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.theme", c.Render.Theme, MaxThemeLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.codeTheme", c.Render.CodeTheme, MaxCodeThemeLength); err != nil {
		return err
	}

	if c.Index.Indent < 0 || c.Index.Indent > MaxIndent {
		return fmt.Errorf("%w: index.indent must be between 0 and %d, got %d", ErrInvalidValue, MaxIndent, c.Index.Indent)
	}
	switch strings.ToLower(c.Index.AnchorScope) {
	case "", "run", "file":
	default:
		return fmt.Errorf("%w: index.anchorScope %q (must be run or file)", ErrInvalidValue, c.Index.AnchorScope)
	}
	if err := validateFieldLength("index.linkExt", c.Index.LinkExt, MaxLinkExtLength); err != nil {
		return err
	}
	if ext := c.Index.LinkExt; ext != "" {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: index.linkExt %q must start with a dot", ErrInvalidValue, ext)
		}
		if err := fileutil.ValidateExtension(ext[1:]); err != nil {
			return fmt.Errorf("%w: index.linkExt: %v", ErrInvalidValue, err)
		}
	}
	return nil
}

// IndentString returns the outline indentation unit, or "" for the default.
func (c *Config) IndentString() string {
	return strings.Repeat(" ", c.Index.Indent)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with no template fragments.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator or ends in .yaml/.yml, it's treated
// as a file path. Otherwise, it's searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) && !hasYAMLExt(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.ReadFile(configPath, &cfg, true); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		if errors.Is(err, yamlutil.ErrNilData) {
			// An empty template file is valid and injects nothing.
			return &cfg, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// current directory first, then ~/.config/go-md2site/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-md2site", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing SearchPaths entry.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
