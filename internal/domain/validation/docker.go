package validation

import (
	"math"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// ImageSizeBudgetMB is the estimated image size above which a warning is raised.
const ImageSizeBudgetMB = 500

var baseImageSizesMB = map[string]int{
	"javascript": 180,
	"typescript": 180,
	"python":     150,
	"go":         350,
	"java":       450,
	"kotlin":     450,
	"rust":       800,
	"ruby":       250,
	"php":        450,
}

var baseBuildSeconds = map[string]float64{
	"javascript": 60,
	"typescript": 90,
	"python":     45,
	"go":         60,
	"java":       180,
	"kotlin":     180,
	"rust":       300,
	"ruby":       90,
	"php":        60,
}

const (
	defaultImageSizeMB  = 200
	defaultBuildSeconds = 60
)

// EstimateDocker returns heuristic container estimates: base size plus 2MB per
// dependency, and base build time plus half a second per dependency capped at 60s.
func EstimateDocker(a domain.StackAnalysis) *domain.DockerValidation {
	size, ok := baseImageSizesMB[a.PrimaryLanguage]
	if !ok {
		size = defaultImageSizeMB
	}
	build, ok := baseBuildSeconds[a.PrimaryLanguage]
	if !ok {
		build = defaultBuildSeconds
	}
	deps := a.DependencyCount()

	return &domain.DockerValidation{
		EstimatedSizeMB:       size + 2*deps,
		EstimatedBuildSeconds: build + math.Min(0.5*float64(deps), 60),
		SecurityIssues: []string{
			"Run the container as a non-root user with a USER instruction",
			"Pin base image versions instead of floating tags",
			"Inject secrets at runtime instead of baking them into the image",
		},
		Optimizations: []string{
			"Use a multi-stage build to keep build tooling out of the runtime image",
			"Copy dependency manifests before sources so installs are cached",
			"Keep the build context small with a .dockerignore",
		},
	}
}
