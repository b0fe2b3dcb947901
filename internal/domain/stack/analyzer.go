// Package stack infers the technology stack of a repository from its file listing and
// the contents of a small whitelist of root-level manifests.
package stack

import (
	"path"
	"sort"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// ManifestFiles is the whitelist of root-level files whose contents the analyzer reads.
var ManifestFiles = []string{
	"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "bun.lockb",
	"requirements.txt", "Pipfile", "Pipfile.lock", "pyproject.toml", "poetry.lock",
	"pom.xml", "build.gradle", "build.gradle.kts",
	"Cargo.toml", "Cargo.lock",
	"go.mod", "go.sum",
	"Gemfile", "Gemfile.lock",
	"composer.json", "composer.lock",
}

// IsManifest reports whether p is a root-level whitelisted manifest.
func IsManifest(p string) bool {
	for _, m := range ManifestFiles {
		if p == m {
			return true
		}
	}
	return false
}

// Analyzer turns a file listing plus manifest contents into a StackAnalysis.
type Analyzer struct {
	sink domain.EventSink
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithEventSink routes parse failures to sink.
func WithEventSink(sink domain.EventSink) Option {
	return func(a *Analyzer) { a.sink = domain.SinkOrNop(sink) }
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{sink: domain.NopSink{}}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze never fails: malformed manifests are skipped and reported as events.
func (a *Analyzer) Analyze(files []domain.FileEntry, manifests map[string]string) domain.StackAnalysis {
	result := domain.NewStackAnalysis()
	result.PrimaryLanguage = DetectLanguage(files)

	var parsed parsedManifests
	for _, name := range ManifestFiles {
		content, ok := manifests[name]
		if !ok {
			continue
		}
		parser, ok := manifestParsers[name]
		if !ok {
			continue
		}
		if err := parser(content, &parsed); err != nil {
			a.sink.Emit(domain.Event{
				Stage:   domain.StageAnalyze,
				Kind:    domain.EventParseFailed,
				Message: err.Error(),
				Fields:  map[string]string{"file": name},
			})
			continue
		}
	}

	result.Dependencies = finalizeDeps(parsed.deps)
	result.DevDependencies = finalizeDeps(parsed.devDeps)
	for k, v := range parsed.scripts {
		result.Scripts[k] = v
	}
	result.Runtime = parsed.runtime

	f := newFacts(files, manifests, result)
	result.Framework = lastMatch(frameworkRules, f)
	result.PackageManager = firstMatch(packageManagerRules, f)
	result.BuildTool = firstMatch(buildToolRules, f)
	result.TestFramework = firstMatch(testFrameworkRules, f)
	result.Linting = allMatches(lintingRules, f)
	result.Styling = allMatches(stylingRules, f)
	result.Database = allMatches(databaseRules, f)

	return result
}

// finalizeDeps assigns categories, drops repeated names (first wins) and orders by name.
func finalizeDeps(deps []domain.Dependency) []domain.Dependency {
	seen := make(map[string]bool, len(deps))
	out := make([]domain.Dependency, 0, len(deps))
	for _, d := range deps {
		if d.Name == "" || seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		d.Category = Categorize(d.Name)
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// facts is the read-only view signature predicates are evaluated against.
type facts struct {
	language string
	paths    map[string]bool
	bases    map[string]bool
	deps     map[string]bool
	depNames []string
	scripts  map[string]string
}

func newFacts(files []domain.FileEntry, manifests map[string]string, a domain.StackAnalysis) *facts {
	f := &facts{
		language: a.PrimaryLanguage,
		paths:    make(map[string]bool, len(files)+len(manifests)),
		bases:    make(map[string]bool, len(files)),
		deps:     make(map[string]bool),
		scripts:  a.Scripts,
	}
	for _, e := range files {
		if e.Kind == domain.KindDir {
			continue
		}
		p := strings.TrimPrefix(e.Path, "./")
		f.paths[p] = true
		f.bases[path.Base(p)] = true
	}
	for name := range manifests {
		f.paths[name] = true
		f.bases[path.Base(name)] = true
	}
	for _, list := range [][]domain.Dependency{a.Dependencies, a.DevDependencies} {
		for _, d := range list {
			if !f.deps[d.Name] {
				f.deps[d.Name] = true
				f.depNames = append(f.depNames, d.Name)
			}
		}
	}
	return f
}

// hasFile reports a root-level file.
func (f *facts) hasFile(names ...string) bool {
	for _, n := range names {
		if f.paths[n] {
			return true
		}
	}
	return false
}

// hasAnyFile reports a file with the given base name anywhere in the tree.
func (f *facts) hasAnyFile(names ...string) bool {
	for _, n := range names {
		if f.bases[n] {
			return true
		}
	}
	return false
}

func (f *facts) hasSuffix(suffix string) bool {
	for p := range f.paths {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

func (f *facts) hasDep(names ...string) bool {
	for _, n := range names {
		if f.deps[n] {
			return true
		}
	}
	return false
}

func (f *facts) hasDepContaining(fragments ...string) bool {
	for _, name := range f.depNames {
		for _, frag := range fragments {
			if strings.Contains(name, frag) {
				return true
			}
		}
	}
	return false
}
