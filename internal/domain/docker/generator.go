package docker

import (
	"bytes"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Generate builds the deterministic containerization bundle.
func Generate(a domain.StackAnalysis) domain.GeneratedFiles {
	cfg := Resolve(a)
	return domain.GeneratedFiles{
		Dockerfile:    RenderDockerfile(cfg),
		DockerCompose: RenderCompose(a, cfg),
		Dockerignore:  RenderDockerignore(a),
		Readme:        RenderReadme(a, cfg),
	}
}

// RenderDockerignore lists the common entries followed by the language entries.
func RenderDockerignore(a domain.StackAnalysis) string {
	profile, ok := languageProfiles[a.PrimaryLanguage]
	if !ok {
		profile = fallbackProfile
	}

	var b strings.Builder
	b.WriteString("# Common\n")
	for _, p := range commonIgnore {
		b.WriteString(p + "\n")
	}
	if len(profile.ignore) > 0 {
		b.WriteString("\n# " + a.PrimaryLanguage + "\n")
		for _, p := range profile.ignore {
			b.WriteString(p + "\n")
		}
	}
	return b.String()
}

var readmeTemplate = template.Must(template.New("readme").Funcs(sprig.TxtFuncMap()).Parse(
	`# Container setup

Generated for a {{ .Language | title }} project{{ with .Framework }} using {{ . }}{{ end }}.

## Configuration

| Setting | Value |
|---|---|
| Base image | ` + "`{{ .Config.BaseImage }}`" + ` |
| Working directory | ` + "`{{ .Config.Workdir }}`" + ` |
| Port | {{ .Config.ExposePort }} |
| Start command | ` + "`{{ .Config.StartCommand }}`" + ` |
{{- with .PackageManager }}
| Package manager | {{ . }} |
{{- end }}
{{- with .Runtime }}
| Runtime | {{ . }} |
{{- end }}

## Environment variables

{{ range .Env -}}
- ` + "`{{ .Name }}`" + `: {{ .Value | quote }}
{{ end }}
{{- if .Services }}
## Services

{{ range .Services -}}
- **{{ .Name }}** ({{ .Image }}) on port {{ .Port }}, data in volume ` + "`{{ .Volume }}`" + `, reachable at ` + "`{{ .URL }}`" + `
{{ end }}
{{- end }}
## Usage

` + "```sh" + `
docker build -t app .
docker run -p {{ .Config.ExposePort }}:{{ .Config.ExposePort }} app
docker compose up --build
` + "```" + `
{{- if .Dependencies }}

{{ .Dependencies | len }} {{ if eq (len .Dependencies) 1 }}dependency{{ else }}dependencies{{ end }} declared: {{ .Dependencies | join ", " | trunc 200 }}
{{- end }}
`))

type readmeEnv struct {
	Name  string
	Value string
}

type readmeService struct {
	Name   string
	Image  string
	Port   int
	Volume string
	URL    string
}

type readmeData struct {
	Language       string
	Framework      string
	PackageManager string
	Runtime        string
	Config         domain.DockerConfig
	Env            []readmeEnv
	Services       []readmeService
	Dependencies   []string
}

// RenderReadme summarises configuration, environment variables and database services.
func RenderReadme(a domain.StackAnalysis, cfg domain.DockerConfig) string {
	data := readmeData{
		Language:       a.PrimaryLanguage,
		Framework:      a.Framework,
		PackageManager: a.PackageManager,
		Runtime:        a.Runtime,
		Config:         cfg,
	}

	env := map[string]string{}
	for k, v := range cfg.EnvironmentVars {
		env[domain.EnvVarName(k)] = v
	}
	services := detectedServices(a)
	for _, s := range services {
		env[domain.EnvVarName(s.urlVar)] = s.url
		data.Services = append(data.Services, readmeService{
			Name: s.name, Image: s.image, Port: s.port, Volume: s.volume, URL: s.url,
		})
	}
	names := make([]string, 0, len(env))
	for k := range env {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, n := range names {
		data.Env = append(data.Env, readmeEnv{Name: n, Value: env[n]})
	}

	for _, d := range a.Dependencies {
		data.Dependencies = append(data.Dependencies, d.Name)
	}

	var buf bytes.Buffer
	if err := readmeTemplate.Execute(&buf, data); err != nil {
		return "# Container setup\n"
	}
	return buf.String()
}
