package md2site

import (
	"errors"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrSourceNotFound = errors.New("source not found")
	ErrNotMarkdown    = errors.New("not a markdown file")
	ErrOutputDir      = errors.New("cannot create output directory")
	ErrRender         = errors.New("rendering page failed")
	ErrIndex          = errors.New("building index failed")
	ErrTemplateInject = pipeline.ErrTemplateInject

	// Theme resolution errors.
	ErrStyleNotFound     = assets.ErrStyleNotFound
	ErrCodeThemeNotFound = pipeline.ErrCodeThemeNotFound
)
