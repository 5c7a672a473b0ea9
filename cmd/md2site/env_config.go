package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-md2site/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without editing the template file.
type envConfig struct {
	Theme       string // MD2SITE_THEME: theme name or CSS path
	CodeTheme   string // MD2SITE_CODE_THEME: code highlighting theme
	Offline     *bool  // MD2SITE_OFFLINE: inline CSS
	AnchorScope string // MD2SITE_ANCHOR_SCOPE: run or file
	LinkExt     string // MD2SITE_LINK_EXT: outline link suffix
}

// knownEnvVars lists valid MD2SITE_* environment variables.
var knownEnvVars = map[string]bool{
	"MD2SITE_THEME":        true,
	"MD2SITE_CODE_THEME":   true,
	"MD2SITE_OFFLINE":      true,
	"MD2SITE_ANCHOR_SCOPE": true,
	"MD2SITE_LINK_EXT":     true,
}

// loadEnvConfig reads configuration from environment variables.
// An unparsable MD2SITE_OFFLINE is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		Theme:       os.Getenv("MD2SITE_THEME"),
		CodeTheme:   os.Getenv("MD2SITE_CODE_THEME"),
		AnchorScope: os.Getenv("MD2SITE_ANCHOR_SCOPE"),
		LinkExt:     os.Getenv("MD2SITE_LINK_EXT"),
	}
	if v := os.Getenv("MD2SITE_OFFLINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Offline = &b
		}
	}
	return cfg
}

// warnUnknownEnvVars logs a warning for unrecognized MD2SITE_* variables.
// Helps catch typos like MD2SITE_THEMES.
func warnUnknownEnvVars(logger *slog.Logger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "MD2SITE_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig overrides config values with the environment variables
// that are set. Precedence: flags > environment > template file > defaults
// (flags are applied afterwards by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" {
		cfg.Render.Theme = env.Theme
	}
	if env.CodeTheme != "" {
		cfg.Render.CodeTheme = env.CodeTheme
	}
	if env.Offline != nil {
		cfg.Render.Offline = *env.Offline
	}
	if env.AnchorScope != "" {
		cfg.Index.AnchorScope = env.AnchorScope
	}
	if env.LinkExt != "" {
		cfg.Index.LinkExt = env.LinkExt
	}
}
