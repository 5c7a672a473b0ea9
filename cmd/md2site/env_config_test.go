package main

// Notes:
// - Tests here use t.Setenv and therefore cannot run in parallel.
// - Precedence is checked through loadConfig, which applies the template
//   file, then the environment, then the flags.

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MD2SITE_THEME", "plain")
	t.Setenv("MD2SITE_CODE_THEME", "monokai")
	t.Setenv("MD2SITE_OFFLINE", "true")
	t.Setenv("MD2SITE_ANCHOR_SCOPE", "file")
	t.Setenv("MD2SITE_LINK_EXT", ".html")

	env := loadEnvConfig()
	if env.Theme != "plain" || env.CodeTheme != "monokai" || env.AnchorScope != "file" || env.LinkExt != ".html" {
		t.Errorf("loadEnvConfig() = %+v", env)
	}
	if env.Offline == nil || !*env.Offline {
		t.Errorf("Offline = %v, want true", env.Offline)
	}
}

func TestLoadEnvConfig_InvalidOfflineIgnored(t *testing.T) {
	t.Setenv("MD2SITE_OFFLINE", "sometimes")

	if env := loadEnvConfig(); env.Offline != nil {
		t.Errorf("Offline = %v, want nil", *env.Offline)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "site.yaml")
	content := "title: Docs\nrender:\n  theme: github-dark\n  codeTheme: github\nindex:\n  linkExt: .htm\n"
	if err := os.WriteFile(tmpl, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MD2SITE_THEME", "plain")
	t.Setenv("MD2SITE_LINK_EXT", ".html")

	f, _, err := parseFlags([]string{"--link-ext", ".xhtml"})
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(&job{mode: modeSite, template: tmpl}, f)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Title != "Docs" || cfg.Render.CodeTheme != "github" {
		t.Errorf("template values lost: %+v", cfg)
	}
	if cfg.Render.Theme != "plain" {
		t.Errorf("theme = %q, want environment value", cfg.Render.Theme)
	}
	if cfg.Index.LinkExt != ".xhtml" {
		t.Errorf("linkExt = %q, want flag value", cfg.Index.LinkExt)
	}
}

func TestLoadConfig_NoTemplateOutsideSiteMode(t *testing.T) {
	f, _, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(&job{mode: modeIndex, template: "ignored.yaml"}, f)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Title != "" {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MD2SITE_THEMES", "plain")
	t.Setenv("MD2SITE_THEME", "plain")

	var buf bytes.Buffer
	warnUnknownEnvVars(slog.New(slog.NewTextHandler(&buf, nil)))

	out := buf.String()
	if !strings.Contains(out, "MD2SITE_THEMES") {
		t.Errorf("warning missing for MD2SITE_THEMES: %q", out)
	}
	if strings.Contains(out, "name=MD2SITE_THEME\n") {
		t.Errorf("known variable reported: %q", out)
	}
}
