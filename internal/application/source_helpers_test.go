package application_test

import (
	"context"
	"fmt"
	"sort"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// memSource is an in-memory RepositorySource.
type memSource struct {
	files   map[string]string
	listErr error
	failing map[string]error
	fetched []string
}

func newMemSource(files map[string]string) *memSource {
	return &memSource{files: files, failing: map[string]error{}}
}

func (m *memSource) ListFiles(context.Context) ([]domain.FileEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return domain.FileEntries(paths...), nil
}

func (m *memSource) GetContent(_ context.Context, path string) ([]byte, error) {
	m.fetched = append(m.fetched, path)
	if err, ok := m.failing[path]; ok {
		return nil, err
	}
	c, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("getting %s: %w", path, domain.ErrNotFound)
	}
	return []byte(c), nil
}

type stubEnricher struct {
	response string
	err      error
	prompts  []string
	deadline bool
}

func (s *stubEnricher) Generate(ctx context.Context, prompt string) (string, error) {
	_, s.deadline = ctx.Deadline()
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

type stubConfigLoader struct {
	cfg domain.ProjectConfig
	err error
}

func (s stubConfigLoader) Load(string) (domain.ProjectConfig, error) { return s.cfg, s.err }

type stubCommits struct{ hash string }

func (s stubCommits) CommitHash(string) (string, error) { return s.hash, nil }
