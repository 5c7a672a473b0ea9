// Package walk traverses a source tree directory by directory, visiting all
// files of a directory before descending into its subdirectories.
//
// A failure inside a subdirectory is reported to the visitor and does not
// stop its siblings. A failure on a file aborts the directory it belongs to;
// at the root that aborts the walk.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrReadDir indicates a directory listing failed.
var ErrReadDir = errors.New("reading directory failed")

// ErrSymlinkCycle indicates a linked directory resolves to one of its own
// ancestors.
var ErrSymlinkCycle = errors.New("symlink cycle")

// SkipDir returned from Visitor.EnterDir skips that subdirectory without
// reporting a failure.
var SkipDir = errors.New("skip this directory")

// Visitor receives traversal events. Paths are relative to the walk root
// and use the host path separator.
type Visitor interface {
	// File is called for every non-directory entry, in listing order.
	File(ctx context.Context, rel string, entry fs.DirEntry) error

	// EnterDir is called before descending into a subdirectory. Returning
	// SkipDir leaves the subdirectory out.
	EnterDir(ctx context.Context, rel string) error

	// SubtreeFailed receives the error that stopped a subdirectory.
	SubtreeFailed(rel string, err error)
}

// Walk visits root with v. Entries are listed with os.ReadDir, which sorts
// them by name. Symbolic links to directories are descended like plain
// directories; a link back to a directory already on the current path is
// reported through SubtreeFailed with ErrSymlinkCycle.
func Walk(ctx context.Context, root string, v Visitor) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: .: %w", ErrReadDir, err)
	}
	return walkDir(ctx, root, ".", v, []os.FileInfo{info})
}

func walkDir(ctx context.Context, root, rel string, v Visitor, ancestors []os.FileInfo) error {
	entries, err := os.ReadDir(filepath.Join(root, rel))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadDir, rel, err)
	}

	var dirs []string
	for _, entry := range entries {
		child := filepath.Join(rel, entry.Name())
		if entry.IsDir() || isDirLink(filepath.Join(root, child), entry) {
			dirs = append(dirs, child)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.File(ctx, child, entry); err != nil {
			return fmt.Errorf("%s: %w", child, err)
		}
	}

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil {
			v.SubtreeFailed(dir, fmt.Errorf("%w: %s: %w", ErrReadDir, dir, err))
			continue
		}
		if onPath(info, ancestors) {
			v.SubtreeFailed(dir, fmt.Errorf("%w: %s", ErrSymlinkCycle, dir))
			continue
		}

		err = v.EnterDir(ctx, dir)
		if errors.Is(err, SkipDir) {
			continue
		}
		if err == nil {
			err = walkDir(ctx, root, dir, v, append(ancestors[:len(ancestors):len(ancestors)], info))
		}
		if err == nil {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		v.SubtreeFailed(dir, err)
	}
	return nil
}

// isDirLink reports whether entry is a symbolic link resolving to a directory.
// A dangling link is not a directory and reaches the visitor as a file.
func isDirLink(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func onPath(info os.FileInfo, ancestors []os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(info, a) {
			return true
		}
	}
	return false
}

// Funcs adapts plain functions to a Visitor. Nil fields are no-ops.
type Funcs struct {
	OnFile          func(ctx context.Context, rel string, entry fs.DirEntry) error
	OnEnterDir      func(ctx context.Context, rel string) error
	OnSubtreeFailed func(rel string, err error)
}

// File implements Visitor.
func (f Funcs) File(ctx context.Context, rel string, entry fs.DirEntry) error {
	if f.OnFile == nil {
		return nil
	}
	return f.OnFile(ctx, rel, entry)
}

// EnterDir implements Visitor.
func (f Funcs) EnterDir(ctx context.Context, rel string) error {
	if f.OnEnterDir == nil {
		return nil
	}
	return f.OnEnterDir(ctx, rel)
}

// SubtreeFailed implements Visitor.
func (f Funcs) SubtreeFailed(rel string, err error) {
	if f.OnSubtreeFailed != nil {
		f.OnSubtreeFailed(rel, err)
	}
}

var _ Visitor = Funcs{}
