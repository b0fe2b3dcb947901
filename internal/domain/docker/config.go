// Package docker generates a containerization bundle from a StackAnalysis. Every
// function here is pure: identical input yields byte-identical output.
package docker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

const workdir = "/app"

var (
	scriptPortRe   = regexp.MustCompile(`(?:--port[=\s]+|-p\s+|PORT=)(\d{2,5})`)
	runtimeMajorRe = regexp.MustCompile(`(\d+)(?:\.(\d+))?`)
)

// Resolve computes the container configuration with precedence
// script > framework convention > language default for port and start command.
func Resolve(a domain.StackAnalysis) domain.DockerConfig {
	profile, ok := languageProfiles[a.PrimaryLanguage]
	if !ok {
		profile = fallbackProfile
	}
	conv := frameworkConventions[a.Framework]

	cfg := domain.DockerConfig{
		BaseImage:        baseImage(a, profile),
		Workdir:          workdir,
		CopyInstructions: append([]string(nil), profile.copy...),
		RunInstructions:  append([]string(nil), profile.run...),
		ExposePort:       profile.port,
		StartCommand:     profile.startCommand,
		EnvironmentVars:  map[string]string{},
	}

	applyPackageManager(a, &cfg)

	if conv.port != 0 {
		cfg.ExposePort = conv.port
	}
	if conv.startCommand != "" {
		cfg.StartCommand = conv.startCommand
	}
	cfg.RunInstructions = append(cfg.RunInstructions, conv.run...)

	if cmd, port := scriptCommand(a); cmd != "" {
		cfg.StartCommand = cmd
		if port != 0 {
			cfg.ExposePort = port
		}
	}

	for k, v := range profile.env {
		cfg.EnvironmentVars[k] = v
	}
	for k, v := range conv.env {
		cfg.EnvironmentVars[k] = v
	}
	cfg.EnvironmentVars["PORT"] = strconv.Itoa(cfg.ExposePort)

	return cfg
}

func baseImage(a domain.StackAnalysis, p languageProfile) string {
	if a.PrimaryLanguage == "java" || a.PrimaryLanguage == "kotlin" {
		if a.PackageManager == "gradle" {
			return gradleOverride.image
		}
		return fmt.Sprintf(p.image, p.version)
	}
	version := p.version
	if v := runtimeVersion(a.PrimaryLanguage, a.Runtime); v != "" {
		version = v
	}
	return fmt.Sprintf(p.image, version)
}

// runtimeVersion extracts the image tag version from a runtime constraint such as
// ">=20", "^3.11" or "1.22.3".
func runtimeVersion(language, runtime string) string {
	m := runtimeMajorRe.FindStringSubmatch(runtime)
	if m == nil {
		return ""
	}
	switch language {
	case "javascript", "typescript":
		return m[1]
	case "python", "go", "rust", "ruby", "php":
		if m[2] == "" {
			return ""
		}
		return m[1] + "." + m[2]
	}
	return ""
}

func applyPackageManager(a domain.StackAnalysis, cfg *domain.DockerConfig) {
	switch {
	case a.IsNode():
		install, ok := installCommands[a.PackageManager]
		if !ok {
			install = installCommands["npm"]
		}
		cfg.RunInstructions = append(cfg.RunInstructions, install)
		if _, ok := a.Script("build"); ok {
			cfg.RunInstructions = append(cfg.RunInstructions, runScript(a.PackageManager, "build"))
		}
	case a.PrimaryLanguage == "python":
		if pm, ok := pythonInstalls[a.PackageManager]; ok {
			cfg.CopyInstructions = []string{pm.copy, ". ."}
			cfg.RunInstructions = []string{pm.run}
		} else if a.BuildTool == domain.BuildToolPyproject {
			// Installing the project needs its sources, so there is no manifest-only layer.
			cfg.CopyInstructions = []string{". ."}
			cfg.RunInstructions = []string{"pip install --no-cache-dir ."}
		}
	case a.PrimaryLanguage == "java" || a.PrimaryLanguage == "kotlin":
		if a.PackageManager == "gradle" {
			cfg.CopyInstructions = append([]string(nil), gradleOverride.copy...)
			cfg.RunInstructions = append([]string(nil), gradleOverride.run...)
			cfg.StartCommand = gradleOverride.start
		}
	}
}

// scriptCommand returns the start command derived from the start or serve script,
// plus the port the script pins, if any.
func scriptCommand(a domain.StackAnalysis) (string, int) {
	if !a.IsNode() {
		return "", 0
	}
	for _, name := range []string{"start", "serve"} {
		script, ok := a.Script(name)
		if !ok {
			continue
		}
		return runScript(a.PackageManager, name), ScriptPort(script)
	}
	return "", 0
}

// ScriptPort parses a port from "--port N", "-p N" or "PORT=N" in a script.
func ScriptPort(script string) int {
	m := scriptPortRe.FindStringSubmatch(script)
	if m == nil {
		return 0
	}
	port, err := strconv.Atoi(m[1])
	if err != nil || port <= 0 || port > 65535 {
		return 0
	}
	return port
}

func runScript(pm, script string) string {
	switch pm {
	case "yarn":
		return "yarn " + script
	case "pnpm":
		if script == "start" {
			return "pnpm start"
		}
		return "pnpm run " + script
	case "bun":
		return "bun run " + script
	default:
		if script == "start" {
			return "npm start"
		}
		return "npm run " + script
	}
}

// NeedsShell reports whether a command relies on shell features and so cannot use the
// exec form of CMD.
func NeedsShell(cmd string) bool {
	if strings.ContainsAny(cmd, "&|;<>$*`") {
		return true
	}
	fields := strings.Fields(cmd)
	return len(fields) > 0 && strings.Contains(fields[0], "=")
}
