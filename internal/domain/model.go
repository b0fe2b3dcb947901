package domain

// UnknownLanguage is the primary language reported when no typed source file is found.
const UnknownLanguage = "unknown"

// StackAnalysis describes the technology stack inferred from a repository snapshot.
// It is built once per run and never mutated afterwards.
type StackAnalysis struct {
	PrimaryLanguage string            `json:"primary_language"`
	Framework       string            `json:"framework,omitempty"`
	PackageManager  string            `json:"package_manager,omitempty"`
	Runtime         string            `json:"runtime,omitempty"`
	Database        []string          `json:"database"`
	Dependencies    []Dependency      `json:"dependencies"`
	DevDependencies []Dependency      `json:"dev_dependencies"`
	Scripts         map[string]string `json:"scripts"`
	BuildTool       string            `json:"build_tool,omitempty"`
	TestFramework   string            `json:"test_framework,omitempty"`
	Linting         []string          `json:"linting"`
	Styling         []string          `json:"styling"`
}

// NewStackAnalysis returns an analysis with every collection initialised and the
// language set to UnknownLanguage.
func NewStackAnalysis() StackAnalysis {
	return StackAnalysis{
		PrimaryLanguage: UnknownLanguage,
		Database:        []string{},
		Dependencies:    []Dependency{},
		DevDependencies: []Dependency{},
		Scripts:         map[string]string{},
		Linting:         []string{},
		Styling:         []string{},
	}
}

// DependencyCount returns the number of runtime and dev dependencies together.
func (a StackAnalysis) DependencyCount() int {
	return len(a.Dependencies) + len(a.DevDependencies)
}

// HasDatabase reports whether the named database technology was detected.
func (a StackAnalysis) HasDatabase(name string) bool {
	for _, d := range a.Database {
		if d == name {
			return true
		}
	}
	return false
}

// Script returns the command registered under name, if any.
func (a StackAnalysis) Script(name string) (string, bool) {
	cmd, ok := a.Scripts[name]
	return cmd, ok
}

// IsNode reports whether the stack runs on Node.js.
func (a StackAnalysis) IsNode() bool {
	return a.PrimaryLanguage == "javascript" || a.PrimaryLanguage == "typescript"
}

// Dependency is a single declared package.
type Dependency struct {
	Name     string         `json:"name"`
	Version  string         `json:"version,omitempty"`
	Type     DependencyType `json:"type"`
	Category string         `json:"category"`
}

type DependencyType string

const (
	DependencyRuntime DependencyType = "runtime"
	DependencyDev     DependencyType = "dev"
	DependencyPeer    DependencyType = "peer"
)

// Dependency categories.
const (
	CategoryFramework = "framework"
	CategoryBuild     = "build"
	CategoryTesting   = "testing"
	CategoryLinting   = "linting"
	CategoryStyling   = "styling"
	CategoryHTTP      = "http"
	CategoryUtility   = "utility"
	CategoryLibrary   = "library"
)

// BuildToolPyproject marks a pip project that declares its dependencies only in
// pyproject.toml, so the image installs the project itself.
const BuildToolPyproject = "pyproject"

// Database technologies recognised by the analyzer.
const (
	DatabasePostgres = "postgresql"
	DatabaseMongo    = "mongodb"
	DatabaseRedis    = "redis"
	DatabaseMySQL    = "mysql"
	DatabaseSQLite   = "sqlite"
)

// FileKind distinguishes files from directories in a repository listing.
type FileKind string

const (
	KindFile FileKind = "file"
	KindDir  FileKind = "dir"
)

// FileEntry is one path of a repository listing.
type FileEntry struct {
	Path string   `json:"path"`
	Kind FileKind `json:"kind"`
}

// FileEntries builds a file-only listing from plain paths.
func FileEntries(paths ...string) []FileEntry {
	entries := make([]FileEntry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, FileEntry{Path: p, Kind: KindFile})
	}
	return entries
}

// DockerConfig is the resolved container configuration for a stack. It is recomputed
// on every call.
type DockerConfig struct {
	BaseImage        string            `json:"base_image"`
	Workdir          string            `json:"workdir"`
	CopyInstructions []string          `json:"copy_instructions"`
	RunInstructions  []string          `json:"run_instructions"`
	ExposePort       int               `json:"expose_port"`
	StartCommand     string            `json:"start_command"`
	EnvironmentVars  map[string]string `json:"environment_vars"`
}

// GeneratedFiles is the containerization bundle handed back to the caller.
type GeneratedFiles struct {
	Dockerfile    string `json:"dockerfile"`
	DockerCompose string `json:"docker_compose,omitempty"`
	Dockerignore  string `json:"dockerignore"`
	Readme        string `json:"readme"`

	// Only set when the enrichment service produced the bundle.
	HealthCheck             string   `json:"health_check,omitempty"`
	SecurityRecommendations []string `json:"security_recommendations,omitempty"`
	Optimizations           []string `json:"optimizations,omitempty"`
	EstimatedSize           string   `json:"estimated_size,omitempty"`
	BuildTime               string   `json:"build_time,omitempty"`
}
