package docker

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// HealthPath is the endpoint every generated health check probes.
const HealthPath = "/health"

// RenderDockerfile emits instructions in a fixed order: FROM, WORKDIR, ENV, COPY, RUN,
// EXPOSE, HEALTHCHECK, CMD.
func RenderDockerfile(cfg domain.DockerConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "FROM %s\n\n", cfg.BaseImage)
	fmt.Fprintf(&b, "WORKDIR %s\n\n", cfg.Workdir)

	if len(cfg.EnvironmentVars) > 0 {
		keys := make([]string, 0, len(cfg.EnvironmentVars))
		for k := range cfg.EnvironmentVars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "ENV %s=%s\n", k, envValue(cfg.EnvironmentVars[k]))
		}
		b.WriteString("\n")
	}

	for _, c := range cfg.CopyInstructions {
		fmt.Fprintf(&b, "COPY %s\n", c)
	}
	b.WriteString("\n")

	if len(cfg.RunInstructions) > 0 {
		for _, r := range cfg.RunInstructions {
			fmt.Fprintf(&b, "RUN %s\n", r)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "EXPOSE %d\n\n", cfg.ExposePort)

	b.WriteString("HEALTHCHECK --interval=30s --timeout=10s --start-period=60s --retries=3 \\\n")
	fmt.Fprintf(&b, "  CMD %s\n\n", healthProbe(cfg))

	fmt.Fprintf(&b, "CMD %s\n", cmdInstruction(cfg.StartCommand))

	return b.String()
}

// healthProbe picks a probe the base image can run. Alpine ships wget, and the
// Debian slim images ship neither curl nor wget, so those use the language
// runtime or a bare TCP connect.
func healthProbe(cfg domain.DockerConfig) string {
	url := fmt.Sprintf("http://localhost:%d%s", cfg.ExposePort, HealthPath)
	image := cfg.BaseImage
	switch {
	case strings.Contains(image, "alpine"):
		return fmt.Sprintf("wget -qO- %s || exit 1", url)
	case strings.HasPrefix(image, "python:"):
		return fmt.Sprintf(`python -c "import urllib.request; urllib.request.urlopen('%s', timeout=5)" || exit 1`, url)
	case strings.HasPrefix(image, "ruby:"):
		return fmt.Sprintf(`ruby -rnet/http -e "exit Net::HTTP.get_response(URI('%s')).is_a?(Net::HTTPSuccess)" || exit 1`, url)
	case strings.Contains(image, "-slim"):
		return fmt.Sprintf(`bash -c ': > /dev/tcp/localhost/%d' || exit 1`, cfg.ExposePort)
	}
	return fmt.Sprintf("curl -f %s || exit 1", url)
}

func cmdInstruction(cmd string) string {
	if NeedsShell(cmd) {
		return cmd
	}
	data, err := json.Marshal(strings.Fields(cmd))
	if err != nil {
		return cmd
	}
	return strings.ReplaceAll(string(data), `","`, `", "`)
}

func envValue(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\"'$") {
		return strconv.Quote(v)
	}
	return v
}
