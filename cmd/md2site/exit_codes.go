package main

import (
	"errors"
	"os"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
)

// Exit codes for the md2site CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error, including partial exports
	ExitUsage   = 2 // Invalid arguments, flags, template or theme
	ExitIO      = 3 // Source missing, output not writable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Usage errors are checked first: a missing theme file also carries
// os.ErrNotExist but is a usage problem.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2site.ErrStyleNotFound) ||
		errors.Is(err, md2site.ErrCodeThemeNotFound) ||
		errors.Is(err, md2site.ErrNotMarkdown) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, md2site.ErrSourceNotFound) ||
		errors.Is(err, md2site.ErrOutputDir) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
