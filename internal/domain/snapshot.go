package domain

import "sort"

// Snapshot is an immutable path to content map. Every mutation returns a new value so
// a caller's snapshot is never aliased by a component.
type Snapshot struct {
	files map[string]string
}

// NewSnapshot copies files into a new snapshot.
func NewSnapshot(files map[string]string) Snapshot {
	cp := make(map[string]string, len(files))
	for k, v := range files {
		cp[k] = v
	}
	return Snapshot{files: cp}
}

func (s Snapshot) Get(path string) (string, bool) {
	v, ok := s.files[path]
	return v, ok
}

func (s Snapshot) Has(path string) bool {
	_, ok := s.files[path]
	return ok
}

func (s Snapshot) Len() int { return len(s.files) }

// Paths returns every path in lexical order.
func (s Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// With returns a copy of the snapshot with path set to content.
func (s Snapshot) With(path, content string) Snapshot {
	cp := make(map[string]string, len(s.files)+1)
	for k, v := range s.files {
		cp[k] = v
	}
	cp[path] = content
	return Snapshot{files: cp}
}

// Map returns a copy of the underlying files.
func (s Snapshot) Map() map[string]string {
	cp := make(map[string]string, len(s.files))
	for k, v := range s.files {
		cp[k] = v
	}
	return cp
}
