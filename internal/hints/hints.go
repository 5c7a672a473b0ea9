// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for template config not found errors.
// Suggests a path argument and, when available, a user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "pass the template as a path, e.g. ./site.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2site") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForSourceNotFound returns a hint for a missing source directory.
func ForSourceNotFound() string {
	return format("the first argument must be an existing directory or .md file")
}

// ForNotMarkdown returns a hint for single-file mode on a non-Markdown file.
func ForNotMarkdown() string {
	return format("single-file mode accepts files ending in .md")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + "; or pass a path to a .css file")
}

// ForSubtreeFailures returns a hint when some directories were skipped.
func ForSubtreeFailures(count int) string {
	if count == 0 {
		return ""
	}
	return formatHints([]string{"rerun with --verbose for per-directory errors", "the rest of the site was written"})
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
