// Package gitsource reads a repository from a committed git tree, so only tracked
// content is seen.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// DefaultRevision is read when no revision is given.
const DefaultRevision = "HEAD"

// Tree implements domain.RepositorySource over the tree of one commit.
type Tree struct {
	commit *object.Commit
	tree   *object.Tree
}

// Open opens the repository at projectPath and resolves rev (HEAD when empty).
func Open(projectPath, rev string) (*Tree, error) {
	repo, err := git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}
	return FromRepository(repo, rev)
}

// FromRepository resolves rev (HEAD when empty) in an already opened repository.
func FromRepository(repo *git.Repository, rev string) (*Tree, error) {
	if rev == "" {
		rev = DefaultRevision
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", rev, errors.Join(domain.ErrNotFound, err))
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", hash, err)
	}
	return &Tree{commit: commit, tree: tree}, nil
}

// Hash returns the resolved commit hash.
func (t *Tree) Hash() string { return t.commit.Hash.String() }

// CommitHash implements domain.CommitResolver for the resolved commit.
func (t *Tree) CommitHash(string) (string, error) { return t.Hash(), nil }

// ListFiles lists every tracked file plus the directories that contain them, sorted.
func (t *Tree) ListFiles(ctx context.Context) ([]domain.FileEntry, error) {
	dirs := map[string]bool{}
	var files []string
	err := t.tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		files = append(files, f.Name)
		for d := path.Dir(f.Name); d != "."; d = path.Dir(d) {
			dirs[d] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking tree: %w", err)
	}

	entries := make([]domain.FileEntry, 0, len(files)+len(dirs))
	for d := range dirs {
		entries = append(entries, domain.FileEntry{Path: d, Kind: domain.KindDir})
	}
	for _, f := range files {
		entries = append(entries, domain.FileEntry{Path: f, Kind: domain.KindFile})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// GetContent returns the committed content of p.
func (t *Tree) GetContent(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := t.tree.File(p)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("reading %s: %w", p, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	content, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return []byte(content), nil
}
