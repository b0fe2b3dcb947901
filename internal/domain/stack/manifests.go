package stack

import (
	"bufio"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// parsedManifests accumulates what every manifest contributed.
type parsedManifests struct {
	deps    []domain.Dependency
	devDeps []domain.Dependency
	scripts map[string]string
	runtime string
}

func (p *parsedManifests) add(name, version string, typ domain.DependencyType) {
	d := domain.Dependency{Name: name, Version: version, Type: typ}
	if typ == domain.DependencyDev {
		p.devDeps = append(p.devDeps, d)
		return
	}
	p.deps = append(p.deps, d)
}

func (p *parsedManifests) setRuntime(v string) {
	if p.runtime == "" && v != "" {
		p.runtime = v
	}
}

type manifestParser func(content string, into *parsedManifests) error

var manifestParsers = map[string]manifestParser{
	"package.json":     parsePackageJSON,
	"requirements.txt": parseRequirements,
	"pyproject.toml":   parsePyproject,
	"pom.xml":          parsePom,
	"Cargo.toml":       parseCargo,
	"go.mod":           parseGoMod,
	"Gemfile":          parseGemfile,
	"composer.json":    parseComposer,
}

// PackageJSON is the subset of package.json the analyzer and validator read.
type PackageJSON struct {
	Name             string            `json:"name"`
	Main             string            `json:"main"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
	Scripts          map[string]string `json:"scripts"`
	Engines          map[string]string `json:"engines"`
}

// ParsePackageJSON decodes package.json content.
func ParsePackageJSON(content string) (PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return PackageJSON{}, fmt.Errorf("parsing package.json: %w", err)
	}
	return pkg, nil
}

func parsePackageJSON(content string, into *parsedManifests) error {
	pkg, err := ParsePackageJSON(content)
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(pkg.Dependencies) {
		into.add(name, pkg.Dependencies[name], domain.DependencyRuntime)
	}
	for _, name := range sortedKeys(pkg.PeerDependencies) {
		into.add(name, pkg.PeerDependencies[name], domain.DependencyPeer)
	}
	for _, name := range sortedKeys(pkg.DevDependencies) {
		into.add(name, pkg.DevDependencies[name], domain.DependencyDev)
	}
	if len(pkg.Scripts) > 0 && into.scripts == nil {
		into.scripts = make(map[string]string, len(pkg.Scripts))
	}
	for k, v := range pkg.Scripts {
		into.scripts[k] = v
	}
	into.setRuntime(pkg.Engines["node"])
	return nil
}

// Requirement is one parsed requirement specifier.
type Requirement struct {
	Name    string
	Version string
	Pinned  bool
}

var requirementRe = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[[^\]]*\])?\s*(.*)$`)

// ParseRequirement parses a single PEP 508 style line. Comments, options, blank lines
// and URL requirements yield ok == false.
func ParseRequirement(line string) (Requirement, bool) {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, ";"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "-") || strings.Contains(line, "://") {
		return Requirement{}, false
	}
	m := requirementRe.FindStringSubmatch(line)
	if m == nil {
		return Requirement{}, false
	}
	spec := strings.ReplaceAll(strings.TrimSpace(m[2]), " ", "")
	req := Requirement{Name: strings.ToLower(m[1])}
	switch {
	case strings.HasPrefix(spec, "==="):
		req.Version, req.Pinned = strings.TrimPrefix(spec, "==="), true
	case strings.HasPrefix(spec, "==") && !strings.Contains(spec, ","):
		req.Version, req.Pinned = strings.TrimPrefix(spec, "=="), true
	default:
		req.Version = spec
	}
	return req, true
}

func parseRequirements(content string, into *parsedManifests) error {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		req, ok := ParseRequirement(scanner.Text())
		if !ok {
			continue
		}
		into.add(req.Name, req.Version, domain.DependencyRuntime)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning requirements.txt: %w", err)
	}
	return nil
}

type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
		RequiresPython       string              `toml:"requires-python"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func parsePyproject(content string, into *parsedManifests) error {
	var doc pyproject
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return fmt.Errorf("parsing pyproject.toml: %w", err)
	}
	for _, line := range doc.Project.Dependencies {
		if req, ok := ParseRequirement(line); ok {
			into.add(req.Name, req.Version, domain.DependencyRuntime)
		}
	}
	for _, group := range sortedKeys(doc.Project.OptionalDependencies) {
		for _, line := range doc.Project.OptionalDependencies[group] {
			if req, ok := ParseRequirement(line); ok {
				into.add(req.Name, req.Version, domain.DependencyDev)
			}
		}
	}
	into.setRuntime(doc.Project.RequiresPython)

	poetry := doc.Tool.Poetry
	for _, name := range sortedKeys(poetry.Dependencies) {
		version := tomlVersion(poetry.Dependencies[name])
		if strings.EqualFold(name, "python") {
			into.setRuntime(version)
			continue
		}
		into.add(strings.ToLower(name), version, domain.DependencyRuntime)
	}
	for _, name := range sortedKeys(poetry.DevDependencies) {
		into.add(strings.ToLower(name), tomlVersion(poetry.DevDependencies[name]), domain.DependencyDev)
	}
	for _, group := range sortedKeys(poetry.Group) {
		deps := poetry.Group[group].Dependencies
		for _, name := range sortedKeys(deps) {
			into.add(strings.ToLower(name), tomlVersion(deps[name]), domain.DependencyDev)
		}
	}
	return nil
}

var (
	pomDependencyRe = regexp.MustCompile(`(?s)<dependency>(.*?)</dependency>`)
	pomGroupRe      = regexp.MustCompile(`<groupId>\s*([^<]+?)\s*</groupId>`)
	pomArtifactRe   = regexp.MustCompile(`<artifactId>\s*([^<]+?)\s*</artifactId>`)
	pomVersionRe    = regexp.MustCompile(`<version>\s*([^<]+?)\s*</version>`)
	pomScopeRe      = regexp.MustCompile(`<scope>\s*([^<]+?)\s*</scope>`)
)

func parsePom(content string, into *parsedManifests) error {
	for _, block := range pomDependencyRe.FindAllStringSubmatch(content, -1) {
		body := block[1]
		artifact := firstGroup(pomArtifactRe, body)
		if artifact == "" {
			continue
		}
		name := artifact
		if group := firstGroup(pomGroupRe, body); group != "" {
			name = group + ":" + artifact
		}
		typ := domain.DependencyRuntime
		if firstGroup(pomScopeRe, body) == "test" {
			typ = domain.DependencyDev
		}
		into.add(name, firstGroup(pomVersionRe, body), typ)
	}
	return nil
}

type cargoManifest struct {
	Package struct {
		RustVersion string `toml:"rust-version"`
	} `toml:"package"`
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

func parseCargo(content string, into *parsedManifests) error {
	var doc cargoManifest
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return fmt.Errorf("parsing Cargo.toml: %w", err)
	}
	for _, name := range sortedKeys(doc.Dependencies) {
		into.add(name, tomlVersion(doc.Dependencies[name]), domain.DependencyRuntime)
	}
	for _, name := range sortedKeys(doc.DevDependencies) {
		into.add(name, tomlVersion(doc.DevDependencies[name]), domain.DependencyDev)
	}
	into.setRuntime(doc.Package.RustVersion)
	return nil
}

func parseGoMod(content string, into *parsedManifests) error {
	f, err := modfile.ParseLax("go.mod", []byte(content), nil)
	if err != nil {
		return fmt.Errorf("parsing go.mod: %w", err)
	}
	for _, r := range f.Require {
		if r.Indirect {
			continue
		}
		into.add(r.Mod.Path, r.Mod.Version, domain.DependencyRuntime)
	}
	if f.Go != nil {
		into.setRuntime(f.Go.Version)
	}
	return nil
}

var (
	gemRe      = regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"](?:\s*,\s*['"]([^'"]+)['"])?`)
	gemGroupRe = regexp.MustCompile(`^\s*group\s+(.+?)\s+do\s*$`)
	gemEndRe   = regexp.MustCompile(`^\s*end\s*$`)
)

func parseGemfile(content string, into *parsedManifests) error {
	inDevGroup := false
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if m := gemGroupRe.FindStringSubmatch(line); m != nil {
			inDevGroup = !strings.Contains(m[1], ":production")
			continue
		}
		if gemEndRe.MatchString(line) {
			inDevGroup = false
			continue
		}
		m := gemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		typ := domain.DependencyRuntime
		if inDevGroup {
			typ = domain.DependencyDev
		}
		into.add(m[1], m[2], typ)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning Gemfile: %w", err)
	}
	return nil
}

type composerJSON struct {
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

func parseComposer(content string, into *parsedManifests) error {
	var doc composerJSON
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return fmt.Errorf("parsing composer.json: %w", err)
	}
	for _, name := range sortedKeys(doc.Require) {
		if name == "php" {
			into.setRuntime(doc.Require[name])
			continue
		}
		if strings.HasPrefix(name, "ext-") {
			continue
		}
		into.add(name, doc.Require[name], domain.DependencyRuntime)
	}
	for _, name := range sortedKeys(doc.RequireDev) {
		into.add(name, doc.RequireDev[name], domain.DependencyDev)
	}
	return nil
}

// tomlVersion reads a version from `name = "1.0"` or `name = { version = "1.0" }`.
func tomlVersion(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val["version"].(string); ok {
			return s
		}
	}
	return ""
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
