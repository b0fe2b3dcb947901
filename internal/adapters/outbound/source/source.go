// Package source reads a repository from a working tree on disk.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

var skipDirs = map[string]bool{
	"vendor":        true,
	"node_modules":  true,
	".git":          true,
	".hg":           true,
	".svn":          true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	".tox":          true,
	".pytest_cache": true,
	".mypy_cache":   true,
	".next":         true,
	".nuxt":         true,
	".svelte-kit":   true,
	".gradle":       true,
	".idea":         true,
}

// Dir implements domain.RepositorySource over a directory.
type Dir struct {
	root string
}

// New returns a source rooted at root.
func New(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", root, translate(err))
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening %s: not a directory", root)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute root directory.
func (d *Dir) Root() string { return d.root }

// ListFiles walks the tree in lexical order. Paths are slash separated and relative
// to the root; directories are listed as well as files.
func (d *Dir) ListFiles(ctx context.Context) ([]domain.FileEntry, error) {
	var entries []domain.FileEntry
	err := filepath.WalkDir(d.root, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == d.root {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if de.IsDir() {
			if skipDirs[de.Name()] {
				return filepath.SkipDir
			}
			entries = append(entries, domain.FileEntry{Path: rel, Kind: domain.KindDir})
			return nil
		}
		if !de.Type().IsRegular() {
			return nil
		}
		entries = append(entries, domain.FileEntry{Path: rel, Kind: domain.KindFile})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", d.root, translate(err))
	}
	return entries, nil
}

// GetContent reads one file. Paths escaping the root are refused.
func (d *Dir) GetContent(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean("/" + p)[1:]
	if clean == "" || clean != strings.TrimPrefix(p, "./") {
		return nil, fmt.Errorf("reading %s: %w", p, domain.ErrAccessDenied)
	}
	data, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, translate(err))
	}
	return data, nil
}

// translate maps filesystem errors onto the domain sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", domain.ErrAccessDenied, err)
	}
	return err
}
