package domain

// PassingScore is the minimum validation score for a repository to count as valid.
const PassingScore = 70

// ValidationResult is the weighted health report of a repository.
type ValidationResult struct {
	IsValid          bool              `json:"is_valid"`
	Score            int               `json:"score"`
	Checks           []ValidationCheck `json:"checks"`
	Recommendations  []string          `json:"recommendations"`
	DockerValidation *DockerValidation `json:"docker_validation,omitempty"`
}

// ValidationCheck is a single rubric item.
type ValidationCheck struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Category string      `json:"category"`
	Severity string      `json:"severity"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
}

type CheckStatus string

const (
	CheckPass    CheckStatus = "pass"
	CheckFail    CheckStatus = "fail"
	CheckWarning CheckStatus = "warning"
	CheckInfo    CheckStatus = "info"
)

// Check categories.
const (
	CheckStructure     = "structure"
	CheckDependencies  = "dependencies"
	CheckConfiguration = "configuration"
	CheckSecurity      = "security"
	CheckPerformance   = "performance"
)

// Check severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// DockerValidation carries the heuristic container estimates.
type DockerValidation struct {
	EstimatedSizeMB       int      `json:"estimated_size_mb"`
	EstimatedBuildSeconds float64  `json:"estimated_build_seconds"`
	SecurityIssues        []string `json:"security_issues"`
	Optimizations         []string `json:"optimizations"`
}

// CountStatus returns how many checks have the given status.
func (r ValidationResult) CountStatus(status CheckStatus) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == status {
			n++
		}
	}
	return n
}
