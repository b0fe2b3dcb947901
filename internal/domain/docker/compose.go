package docker

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// RenderCompose emits a compose document with an app service plus one service per
// detected PostgreSQL, MongoDB or Redis database. Keys are written in a fixed order.
func RenderCompose(a domain.StackAnalysis, cfg domain.DockerConfig) string {
	services := detectedServices(a)

	app := mapping()
	app.add("build", mapping().
		add("context", str(".")).
		add("dockerfile", str("Dockerfile")).node())
	port := strconv.Itoa(cfg.ExposePort)
	app.add("ports", seq(quoted(port+":"+port)))
	app.add("environment", appEnvironment(cfg, services))
	if len(services) > 0 {
		deps := mapping()
		for _, s := range services {
			deps.add(s.name, mapping().add("condition", str("service_healthy")).node())
		}
		app.add("depends_on", deps.node())
	}
	app.add("restart", str("unless-stopped"))

	svcs := mapping().add("app", app.node())
	volumes := mapping()
	for _, s := range services {
		svcs.add(s.name, serviceNode(s))
		volumes.add(s.volume, &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle})
	}

	doc := mapping().add("services", svcs.node())
	if len(services) > 0 {
		doc.add("volumes", volumes.node())
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	// Encoding a tree of plain scalar nodes cannot fail.
	_ = enc.Encode(doc.node())
	_ = enc.Close()
	return buf.String()
}

func detectedServices(a domain.StackAnalysis) []databaseService {
	var out []databaseService
	for _, d := range databaseServices {
		if a.HasDatabase(d.database) {
			out = append(out, d.service)
		}
	}
	return out
}

func appEnvironment(cfg domain.DockerConfig, services []databaseService) *yaml.Node {
	keys := make([]string, 0, len(cfg.EnvironmentVars))
	for k := range cfg.EnvironmentVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := mapping()
	for _, k := range keys {
		env.add(k, str(cfg.EnvironmentVars[k]))
	}
	for _, s := range services {
		env.add(s.urlVar, str(s.url))
	}
	return env.node()
}

func serviceNode(s databaseService) *yaml.Node {
	svc := mapping().add("image", str(s.image))
	if len(s.env) > 0 {
		env := mapping()
		for _, kv := range s.env {
			env.add(kv[0], str(kv[1]))
		}
		svc.add("environment", env.node())
	}
	port := strconv.Itoa(s.port)
	svc.add("ports", seq(quoted(port+":"+port)))
	svc.add("volumes", seq(str(fmt.Sprintf("%s:%s", s.volume, s.mountPath))))

	test := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, part := range s.healthcheck {
		test.Content = append(test.Content, str(part))
	}
	svc.add("healthcheck", mapping().
		add("test", test).
		add("interval", str("10s")).
		add("timeout", str("5s")).
		add("retries", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "5"}).node())
	return svc.node()
}

// ordered builds a mapping node whose keys keep insertion order.
type ordered struct {
	n *yaml.Node
}

func mapping() *ordered {
	return &ordered{n: &yaml.Node{Kind: yaml.MappingNode}}
}

func (o *ordered) add(key string, value *yaml.Node) *ordered {
	o.n.Content = append(o.n.Content, str(key), value)
	return o
}

func (o *ordered) node() *yaml.Node { return o.n }

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func quoted(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v, Style: yaml.DoubleQuotedStyle}
}

func seq(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}
