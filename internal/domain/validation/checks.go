package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/shipkraft/shipkraft/internal/domain/stack"
)

type checkResult struct {
	check          domain.ValidationCheck
	recommendation string
}

func pass(category, severity, name, msg string) checkResult {
	return checkResult{check: domain.ValidationCheck{
		Name: name, Status: domain.CheckPass, Category: category, Severity: severity, Message: msg,
	}}
}

func flag(status domain.CheckStatus, category, severity, name, msg, rec string) checkResult {
	return checkResult{
		check: domain.ValidationCheck{
			Name: name, Status: status, Category: category, Severity: severity, Message: msg,
		},
		recommendation: rec,
	}
}

func (r checkResult) withDetails(d string) checkResult {
	r.check.Details = d
	return r
}

var checkGroups = []func(v *view) []checkResult{
	structureChecks,
	dependencyChecks,
	configurationChecks,
	securityChecks,
	performanceChecks,
}

var (
	testFileRe = regexp.MustCompile(`(^|/)(tests?|__tests__|spec)/|_test\.go$|\.(test|spec)\.[jt]sx?$|(^|/)test_[^/]*\.py$|_test\.py$|_spec\.rb$|Test\.java$`)
	ciFileRe   = regexp.MustCompile(`^\.github/workflows/[^/]+\.ya?ml$|^\.circleci/config\.yml$`)
	keyFileRe  = regexp.MustCompile(`\.(pem|key|p12|pfx)$|(^|/)id_(rsa|dsa|ecdsa|ed25519)$`)
	riskyHook  = regexp.MustCompile(`\b(curl|wget)\b|\|\s*(ba)?sh\b|\bsh\s+-c\b|\beval\b`)
)

func structureChecks(v *view) []checkResult {
	const c = domain.CheckStructure
	var out []checkResult

	if v.has("README.md", "README", "README.rst", "README.txt", "readme.md") {
		out = append(out, pass(c, domain.SeverityMedium, "README", "README found"))
	} else {
		out = append(out, flag(domain.CheckFail, c, domain.SeverityMedium, "README",
			"No README at the repository root",
			"Add a README.md describing what the project does and how to run it"))
	}

	if v.has(".gitignore") {
		out = append(out, pass(c, domain.SeverityMedium, ".gitignore", ".gitignore found"))
	} else {
		out = append(out, flag(domain.CheckWarning, c, domain.SeverityMedium, ".gitignore",
			"No .gitignore file",
			"Add a .gitignore so build output and secrets are never committed"))
	}

	if v.has("LICENSE", "LICENSE.md", "LICENSE.txt", "COPYING") {
		out = append(out, pass(c, domain.SeverityLow, "License", "License file found"))
	} else {
		out = append(out, flag(domain.CheckInfo, c, domain.SeverityLow, "License",
			"No license file",
			"Add a LICENSE file to make usage terms explicit"))
	}

	if p, ok := v.any(testFileRe.MatchString); ok {
		out = append(out, pass(c, domain.SeverityHigh, "Tests", "Test files found").withDetails(p))
	} else {
		out = append(out, flag(domain.CheckWarning, c, domain.SeverityHigh, "Tests",
			"No test files found",
			"Add automated tests next to the code they cover"))
	}

	if _, ok := v.any(func(p string) bool {
		for _, dir := range []string{"src/", "app/", "lib/", "internal/", "cmd/", "pkg/"} {
			if strings.HasPrefix(p, dir) {
				return true
			}
		}
		return false
	}); ok {
		out = append(out, pass(c, domain.SeverityLow, "Source layout", "Source directory found"))
	} else {
		out = append(out, flag(domain.CheckInfo, c, domain.SeverityLow, "Source layout",
			"Source files live at the repository root",
			"Group source files under a src/ (or language-conventional) directory"))
	}

	if _, ok := v.any(func(p string) bool {
		return ciFileRe.MatchString(p) || p == ".gitlab-ci.yml" || p == "Jenkinsfile" || p == "azure-pipelines.yml"
	}); ok {
		out = append(out, pass(c, domain.SeverityLow, "CI", "CI configuration found"))
	} else {
		out = append(out, flag(domain.CheckWarning, c, domain.SeverityLow, "CI",
			"No CI configuration",
			"Add a CI workflow that builds and tests every change"))
	}

	return out
}

var lockfiles = map[string][]string{
	"npm":      {"package-lock.json"},
	"yarn":     {"yarn.lock"},
	"pnpm":     {"pnpm-lock.yaml"},
	"bun":      {"bun.lockb"},
	"poetry":   {"poetry.lock"},
	"pipenv":   {"Pipfile.lock"},
	"cargo":    {"Cargo.lock"},
	"go":       {"go.sum"},
	"bundler":  {"Gemfile.lock"},
	"composer": {"composer.lock"},
}

func dependencyChecks(v *view) []checkResult {
	const c = domain.CheckDependencies
	a := v.in.Stack
	var out []checkResult

	manifests := []string{"package.json", "requirements.txt", "pyproject.toml", "Pipfile", "pom.xml",
		"build.gradle", "build.gradle.kts", "Cargo.toml", "go.mod", "Gemfile", "composer.json"}
	if v.has(manifests...) {
		out = append(out, pass(c, domain.SeverityHigh, "Dependency manifest", "Dependency manifest found"))
	} else {
		out = append(out, flag(domain.CheckFail, c, domain.SeverityHigh, "Dependency manifest",
			"No dependency manifest found",
			"Declare dependencies in the ecosystem's manifest file"))
	}

	if locks, ok := lockfiles[a.PackageManager]; ok {
		if v.has(locks...) {
			out = append(out, pass(c, domain.SeverityMedium, "Lockfile", "Lockfile found"))
		} else {
			out = append(out, flag(domain.CheckWarning, c, domain.SeverityMedium, "Lockfile",
				fmt.Sprintf("No lockfile for %s", a.PackageManager),
				fmt.Sprintf("Commit %s for reproducible installs", locks[0])))
		}
	}

	if unpinned := unpinnedDependencies(v); unpinned != nil {
		if len(unpinned) == 0 {
			out = append(out, pass(c, domain.SeverityMedium, "Pinned versions", "All dependency versions are pinned"))
		} else {
			out = append(out, flag(domain.CheckWarning, c, domain.SeverityMedium, "Pinned versions",
				fmt.Sprintf("%d dependencies without a pinned version", len(unpinned)),
				"Pin dependency versions so builds are reproducible").withDetails(strings.Join(unpinned, ", ")))
		}
	}

	count := a.DependencyCount()
	if count > DependencyThreshold {
		out = append(out, flag(domain.CheckWarning, c, domain.SeverityLow, "Dependency count",
			fmt.Sprintf("%d dependencies declared", count), ""))
	} else {
		out = append(out, pass(c, domain.SeverityLow, "Dependency count",
			fmt.Sprintf("%d dependencies declared", count)))
	}

	if a.IsNode() {
		var misplaced []string
		for _, d := range a.Dependencies {
			if d.Category == domain.CategoryTesting || d.Category == domain.CategoryLinting {
				misplaced = append(misplaced, d.Name)
			}
		}
		if len(misplaced) > 0 {
			out = append(out, flag(domain.CheckWarning, c, domain.SeverityLow, "Dev dependencies",
				"Testing or linting packages listed as runtime dependencies",
				"Move testing and linting packages to devDependencies").withDetails(strings.Join(misplaced, ", ")))
		} else {
			out = append(out, pass(c, domain.SeverityLow, "Dev dependencies", "Dev tooling kept out of runtime dependencies"))
		}
	}

	return out
}

// unpinnedDependencies returns nil when no version source was supplied.
func unpinnedDependencies(v *view) []string {
	var unpinned []string
	found := false

	if content, ok := v.content("requirements.txt"); ok {
		found = true
		for _, line := range strings.Split(content, "\n") {
			if req, ok := stack.ParseRequirement(line); ok && !req.Pinned {
				unpinned = append(unpinned, req.Name)
			}
		}
	}
	if content, ok := v.content("package.json"); ok {
		if pkg, err := stack.ParsePackageJSON(content); err == nil {
			found = true
			for name, ver := range pkg.Dependencies {
				if ver == "*" || ver == "latest" || ver == "" {
					unpinned = append(unpinned, name)
				}
			}
		}
	}

	if !found {
		return nil
	}
	sort.Strings(unpinned)
	if unpinned == nil {
		unpinned = []string{}
	}
	return unpinned
}

func configurationChecks(v *view) []checkResult {
	const c = domain.CheckConfiguration
	a := v.in.Stack
	var out []checkResult

	if hasEntryPoint(v) {
		out = append(out, pass(c, domain.SeverityMedium, "Entry point", "Application entry point found"))
	} else {
		out = append(out, flag(domain.CheckWarning, c, domain.SeverityMedium, "Entry point",
			"No obvious application entry point",
			"Add a start script or a conventional entry file (main, app, server)"))
	}

	if v.has(".env.example", ".env.sample", ".env.template") {
		out = append(out, pass(c, domain.SeverityLow, "Environment example", "Environment template found"))
	} else {
		out = append(out, flag(domain.CheckInfo, c, domain.SeverityLow, "Environment example",
			"No .env.example documenting required variables",
			"Add a .env.example listing every required environment variable"))
	}

	if v.has("Dockerfile") {
		out = append(out, pass(c, domain.SeverityLow, "Dockerfile", "Dockerfile found"))
	} else {
		out = append(out, flag(domain.CheckInfo, c, domain.SeverityLow, "Dockerfile",
			"No Dockerfile; one will be generated", ""))
	}

	if content, ok := v.content("package.json"); ok {
		if _, err := stack.ParsePackageJSON(content); err != nil {
			out = append(out, flag(domain.CheckFail, c, domain.SeverityHigh, "package.json",
				"package.json is not valid JSON",
				"Fix the syntax errors in package.json").withDetails(err.Error()))
		} else {
			out = append(out, pass(c, domain.SeverityHigh, "package.json", "package.json parses"))
		}
	}

	if len(a.Linting) > 0 {
		out = append(out, pass(c, domain.SeverityLow, "Linting", "Linting configured: "+strings.Join(a.Linting, ", ")))
	} else {
		out = append(out, flag(domain.CheckWarning, c, domain.SeverityLow, "Linting", "No linter configured", ""))
	}

	if a.TestFramework != "" {
		out = append(out, pass(c, domain.SeverityMedium, "Test framework", "Test framework: "+a.TestFramework))
	} else {
		out = append(out, flag(domain.CheckWarning, c, domain.SeverityMedium, "Test framework", "No test framework detected", ""))
	}

	return out
}

func hasEntryPoint(v *view) bool {
	a := v.in.Stack
	if _, ok := a.Script("start"); ok {
		return true
	}
	entries := map[string]bool{
		"index.js": true, "server.js": true, "app.js": true, "main.js": true, "index.ts": true, "main.ts": true, "server.ts": true,
		"main.py": true, "app.py": true, "manage.py": true, "wsgi.py": true, "asgi.py": true,
		"main.go": true, "main.rs": true, "Application.java": true, "config.ru": true, "index.php": true, "artisan": true,
	}
	_, ok := v.any(func(p string) bool {
		return entries[base(p)] || strings.HasPrefix(p, "cmd/")
	})
	return ok
}

func securityChecks(v *view) []checkResult {
	const c = domain.CheckSecurity
	var out []checkResult

	if p, ok := v.any(isCommittedEnvFile); ok {
		out = append(out, flag(domain.CheckFail, c, domain.SeverityCritical, "Environment file committed",
			"An environment file with potential secrets is committed",
			"Remove committed .env files, rotate their secrets and ignore them in .gitignore").withDetails(p))
	} else {
		out = append(out, pass(c, domain.SeverityCritical, "Environment file committed", "No .env files committed"))
	}

	if p, ok := v.any(keyFileRe.MatchString); ok {
		out = append(out, flag(domain.CheckFail, c, domain.SeverityCritical, "Private keys",
			"A private key or certificate bundle is committed",
			"Remove key material from the repository and load it from a secret store").withDetails(p))
	} else {
		out = append(out, pass(c, domain.SeverityCritical, "Private keys", "No private key files committed"))
	}

	if content, ok := v.content(".gitignore"); ok {
		if missing := gitignoreGaps(content, v.in.Stack.PrimaryLanguage); len(missing) > 0 {
			out = append(out, flag(domain.CheckWarning, c, domain.SeverityHigh, ".gitignore coverage",
				".gitignore misses sensitive or generated paths",
				"Ignore "+strings.Join(missing, ", ")+" in .gitignore").withDetails(strings.Join(missing, ", ")))
		} else {
			out = append(out, pass(c, domain.SeverityHigh, ".gitignore coverage", ".gitignore covers secrets and build output"))
		}
	}

	if content, ok := v.content("package.json"); ok {
		if pkg, err := stack.ParsePackageJSON(content); err == nil {
			var risky []string
			for _, hook := range []string{"preinstall", "install", "postinstall", "prepare"} {
				if script, ok := pkg.Scripts[hook]; ok && riskyHook.MatchString(script) {
					risky = append(risky, hook)
				}
			}
			if len(risky) > 0 {
				out = append(out, flag(domain.CheckWarning, c, domain.SeverityHigh, "Install scripts",
					"Install lifecycle scripts download or execute remote code",
					"Review install lifecycle scripts; avoid piping remote content into a shell").withDetails(strings.Join(risky, ", ")))
			} else {
				out = append(out, pass(c, domain.SeverityHigh, "Install scripts", "Install lifecycle scripts look safe"))
			}
		}
	}

	return out
}

func isCommittedEnvFile(p string) bool {
	b := base(p)
	if b != ".env" && !strings.HasPrefix(b, ".env.") {
		return false
	}
	for _, suffix := range []string{".example", ".sample", ".template", ".dist"} {
		if strings.HasSuffix(b, suffix) {
			return false
		}
	}
	return true
}

var buildDirs = map[string][]string{
	"javascript": {"node_modules"},
	"typescript": {"node_modules"},
	"python":     {"__pycache__"},
	"rust":       {"target"},
	"java":       {"target"},
	"ruby":       {".bundle"},
	"php":        {"vendor"},
}

func gitignoreGaps(content, language string) []string {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, strings.Trim(line, "/"))
	}
	covered := func(candidates ...string) bool {
		for _, p := range patterns {
			for _, c := range candidates {
				if p == c {
					return true
				}
			}
		}
		return false
	}

	var missing []string
	if !covered(".env", ".env*", "*.env", ".env.*", ".env.local") {
		missing = append(missing, ".env")
	}
	for _, dir := range buildDirs[language] {
		if !covered(dir, dir+"/*", "**/"+dir, dir+"/**") {
			missing = append(missing, dir)
		}
	}
	return missing
}

func performanceChecks(v *view) []checkResult {
	const c = domain.CheckPerformance
	a := v.in.Stack
	var out []checkResult

	if p, ok := v.any(func(p string) bool {
		if strings.HasPrefix(p, "node_modules/") || strings.Contains(p, "/node_modules/") {
			return true
		}
		return (a.PrimaryLanguage == "php" || a.PrimaryLanguage == "ruby") && strings.HasPrefix(p, "vendor/")
	}); ok {
		out = append(out, flag(domain.CheckFail, c, domain.SeverityMedium, "Committed dependencies",
			"Installed dependencies are committed",
			"Remove installed dependency directories from version control").withDetails(p))
	} else {
		out = append(out, pass(c, domain.SeverityMedium, "Committed dependencies", "No installed dependencies committed"))
	}

	if a.BuildTool != "" {
		out = append(out, pass(c, domain.SeverityLow, "Build tool", "Build tool: "+a.BuildTool))
	} else {
		out = append(out, flag(domain.CheckInfo, c, domain.SeverityLow, "Build tool", "No build tool detected", ""))
	}

	if v.has(".dockerignore") {
		out = append(out, pass(c, domain.SeverityLow, ".dockerignore", ".dockerignore found"))
	} else {
		out = append(out, flag(domain.CheckWarning, c, domain.SeverityLow, ".dockerignore",
			"No .dockerignore; the whole tree is sent as build context",
			"Add a .dockerignore to keep the build context small"))
	}

	est := EstimateDocker(a)
	if est.EstimatedSizeMB > ImageSizeBudgetMB {
		out = append(out, flag(domain.CheckWarning, c, domain.SeverityMedium, "Image size",
			fmt.Sprintf("Estimated image size %dMB exceeds %dMB", est.EstimatedSizeMB, ImageSizeBudgetMB),
			"Use a slimmer base image and a multi-stage build"))
	} else {
		out = append(out, pass(c, domain.SeverityMedium, "Image size",
			fmt.Sprintf("Estimated image size %dMB", est.EstimatedSizeMB)))
	}

	return out
}
