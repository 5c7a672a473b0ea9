package toc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-md2site/internal/slug"
	"github.com/alnah/go-md2site/internal/walk"
)

// IndexName is the outline document written at the destination root.
const IndexName = "index.md"

// DefaultIndent is the indentation unit repeated once per nesting level.
const DefaultIndent = "  "

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Sentinel errors for outline generation.
var (
	ErrCollect = errors.New("collecting markdown files failed")
	ErrScan    = errors.New("scanning markdown file failed")
	ErrWrite   = errors.New("writing outline failed")
)

// Scope selects how long one collision table lives during a build.
type Scope int

const (
	// ScopeRun shares one table across every file of a build, so identical
	// headings in different files get distinct anchors.
	ScopeRun Scope = iota
	// ScopeFile starts a fresh table per file, matching the anchors a
	// per-page renderer assigns.
	ScopeFile
)

// String returns the flag spelling of s.
func (s Scope) String() string {
	if s == ScopeFile {
		return "file"
	}
	return "run"
}

// ParseScope accepts "run" or "file" (case-insensitive, empty means run).
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "run":
		return ScopeRun, nil
	case "file":
		return ScopeFile, nil
	}
	return ScopeRun, fmt.Errorf("invalid anchor scope %q (must be run or file)", s)
}

// excluded names are never part of the outline.
var excluded = map[string]bool{
	"README.md": true,
	IndexName:   true,
}

// CollectFiles returns every Markdown file under root except README.md and
// index.md, sorted by full path. Linked directories are followed; a link
// back to one of its own ancestors is left out.
func CollectFiles(root string) ([]string, error) {
	var (
		files   []string
		subErr  error
		visitor = walk.Funcs{
			OnFile: func(_ context.Context, rel string, entry fs.DirEntry) error {
				if strings.HasSuffix(entry.Name(), ".md") && !excluded[entry.Name()] {
					files = append(files, filepath.Join(root, rel))
				}
				return nil
			},
			OnSubtreeFailed: func(rel string, err error) {
				if subErr == nil && !errors.Is(err, walk.ErrSymlinkCycle) {
					subErr = fmt.Errorf("scanning %s: %w", filepath.Join(root, rel), err)
				}
			},
		}
	)

	err := walk.Walk(context.Background(), root, visitor)
	if err == nil {
		err = subErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCollect, err)
	}

	sort.Strings(files)
	return files, nil
}

// Outline is the ordered list of headings across a tree.
type Outline []Heading

// Line renders one heading as a nested Markdown list item.
func (h Heading) Line(indent, linkExt string) string {
	level := max(h.Level, 1)
	return fmt.Sprintf("%s- [%s](%s%s#%s)",
		strings.Repeat(indent, level-1), h.Text, h.Source, linkExt, h.Anchor)
}

// Render joins the outline lines with newlines.
func (o Outline) Render(indent, linkExt string) string {
	lines := make([]string, len(o))
	for i, h := range o {
		lines[i] = h.Line(indent, linkExt)
	}
	return strings.Join(lines, "\n")
}

// String renders the outline with the default indentation and no link suffix.
func (o Outline) String() string {
	return o.Render(DefaultIndent, "")
}

// Builder assembles outlines. The zero value uses DefaultIndent and ScopeRun.
type Builder struct {
	Indent  string // indentation unit, DefaultIndent when empty
	Scope   Scope
	LinkExt string // appended to each link path, e.g. ".html"
}

func (b *Builder) indent() string {
	if b.Indent == "" {
		return DefaultIndent
	}
	return b.Indent
}

// Build scans every collected file under root and returns the outline.
// Each call starts with fresh collision state.
func (b *Builder) Build(ctx context.Context, root string) (Outline, error) {
	files, err := CollectFiles(root)
	if err != nil {
		return nil, err
	}

	table := slug.NewTable()
	var outline Outline
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(path) // #nosec G304 -- discovered path
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrScan, path, err)
		}

		if b.Scope == ScopeFile {
			table.Reset()
		}

		source := sourcePath(root, path)
		for _, h := range ScanHeadings(string(content), table) {
			h.Source = source
			outline = append(outline, h)
		}
	}
	return outline, nil
}

// Write builds the outline of root and writes it to destDir/index.md,
// creating destDir if needed. An empty outline yields an empty file.
func (b *Builder) Write(ctx context.Context, root, destDir string) (Outline, error) {
	outline, err := b.Build(ctx, root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	path := filepath.Join(destDir, IndexName)
	content := outline.Render(b.indent(), b.LinkExt)
	// #nosec G306 -- outline is published content
	if err := os.WriteFile(path, []byte(content), filePermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return outline, nil
}

// sourcePath returns path relative to root, slash-separated, without ".md".
func sourcePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = strings.TrimPrefix(path, root)
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ".md")
}
