// Package walker discovers the source files of a project tree.
package walker

import (
	"errors"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	aerrors "astdump/internal/errors"
)

// File is one discovered source file.
type File struct {
	// Path is the file's path as reached from the walk root.
	Path string
	// Rel is the slash-separated path relative to the walk root.
	Rel string
}

var errStop = errors.New("walk stopped")

// Walk lazily yields every regular file below root whose extension equals ext,
// compared case-insensitively. Every matching file is yielded exactly once, in
// lexical order within each directory; callers must not rely on that order.
//
// If root itself cannot be read, a single TRAVERSAL_ERROR is yielded and the
// sequence ends. Unreadable subdirectories are logged and skipped.
func Walk(root, ext string, logger *slog.Logger) iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		resolved, err := resolveRoot(root)
		if err != nil {
			yield(File{}, err)
			return
		}

		err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == resolved {
					return aerrors.New(aerrors.TraversalError, "cannot read source root", err).WithPath(root)
				}
				logger.Warn("Skipping unreadable path", "path", path, "error", err.Error())
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !isRegular(path, d) || !strings.EqualFold(filepath.Ext(path), ext) {
				return nil
			}

			rel, err := filepath.Rel(resolved, path)
			if err != nil {
				return aerrors.New(aerrors.TraversalError, "cannot relativize path", err).WithPath(path)
			}
			if !yield(File{Path: filepath.Join(root, rel), Rel: filepath.ToSlash(rel)}, nil) {
				return errStop
			}
			return nil
		})

		if err != nil && !errors.Is(err, errStop) {
			yield(File{}, err)
		}
	}
}

// resolveRoot follows symlinks in root, since WalkDir never descends into a
// symlinked root, and requires the target to be a directory.
func resolveRoot(root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", aerrors.New(aerrors.TraversalError, "cannot read source root", err).WithPath(root)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", aerrors.New(aerrors.TraversalError, "cannot read source root", err).WithPath(root)
	}
	if !info.IsDir() {
		return "", aerrors.Newf(aerrors.TraversalError, "source root is not a directory").WithPath(root)
	}
	return resolved, nil
}

// isRegular reports whether d is a regular file, following a symlink at d.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
