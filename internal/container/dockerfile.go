// Package container models the backend container image: the configuration a
// Dockerfile declares, and the contract the deploy pipeline expects it to
// satisfy.
package container

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

// Healthcheck is the HEALTHCHECK instruction of an image
type Healthcheck struct {
	// Test holds the probe tokens, e.g. ["CMD", "curl -f http://localhost:5005/api/health"].
	// ["NONE"] disables any inherited healthcheck.
	Test        []string
	Interval    time.Duration
	Timeout     time.Duration
	StartPeriod time.Duration
	Retries     int
}

// Disabled reports whether the healthcheck is HEALTHCHECK NONE
func (h *Healthcheck) Disabled() bool {
	return len(h.Test) == 1 && strings.EqualFold(h.Test[0], "NONE")
}

// Command returns the probe command as a single string, without the CMD prefix
func (h *Healthcheck) Command() string {
	if len(h.Test) < 2 {
		return ""
	}
	return strings.Join(h.Test[1:], " ")
}

// ImageSpec is the declared configuration of a container image. For
// multi-stage builds it describes the final stage.
type ImageSpec struct {
	BaseImage    string
	Env          map[string]string
	WorkDir      string
	User         string
	ExposedPorts []int
	Healthcheck  *Healthcheck
	Entrypoint   []string
	Cmd          []string
}

// ParseDockerfile parses Dockerfile content into an ImageSpec using the
// buildkit Dockerfile AST.
func ParseDockerfile(content []byte) (*ImageSpec, error) {
	ast, err := parser.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parsing Dockerfile: %w", err)
	}

	spec := newImageSpec()
	sawStage := false

	for _, node := range ast.AST.Children {
		args := nodeArgs(node)

		switch strings.ToUpper(node.Value) {
		case "FROM":
			if sawStage {
				// Later stages define the shipped image; earlier ones are
				// build-only. EXPOSE/ENV from build stages don't survive.
				spec = newImageSpec()
			}
			sawStage = true
			if len(args) > 0 {
				spec.BaseImage = args[0]
			}

		case "ENV":
			parseEnvArgs(args, spec.Env)

		case "WORKDIR":
			if len(args) > 0 {
				spec.WorkDir = args[0]
			}

		case "USER":
			if len(args) > 0 {
				spec.User = args[0]
			}

		case "EXPOSE":
			for _, arg := range args {
				portStr, _, _ := strings.Cut(arg, "/")
				port, err := strconv.Atoi(portStr)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid EXPOSE port %q", node.StartLine, arg)
				}
				spec.ExposedPorts = append(spec.ExposedPorts, port)
			}

		case "HEALTHCHECK":
			hc, err := parseHealthcheck(node, args)
			if err != nil {
				return nil, err
			}
			spec.Healthcheck = hc

		case "ENTRYPOINT":
			spec.Entrypoint = args

		case "CMD":
			spec.Cmd = args
		}
	}

	if !sawStage {
		return nil, fmt.Errorf("Dockerfile has no FROM instruction")
	}

	return spec, nil
}

func newImageSpec() *ImageSpec {
	return &ImageSpec{Env: make(map[string]string)}
}

// nodeArgs flattens the value chain of an instruction node
func nodeArgs(node *parser.Node) []string {
	var args []string
	for n := node.Next; n != nil; n = n.Next {
		args = append(args, n.Value)
	}
	return args
}

// parseEnvArgs reads an ENV node chain. The parser emits alternating name
// and value nodes for both ENV key=value and the legacy ENV key value form.
func parseEnvArgs(args []string, env map[string]string) {
	for i := 0; i+1 < len(args); i += 2 {
		env[args[i]] = trimQuotes(args[i+1])
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func parseHealthcheck(node *parser.Node, args []string) (*Healthcheck, error) {
	hc := &Healthcheck{Test: args}

	for _, flag := range node.Flags {
		name, value, ok := strings.Cut(strings.TrimPrefix(flag, "--"), "=")
		if !ok {
			continue
		}

		switch name {
		case "retries":
			retries, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid HEALTHCHECK retries %q", node.StartLine, value)
			}
			hc.Retries = retries

		case "interval", "timeout", "start-period":
			d, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid HEALTHCHECK %s %q", node.StartLine, name, value)
			}
			switch name {
			case "interval":
				hc.Interval = d
			case "timeout":
				hc.Timeout = d
			case "start-period":
				hc.StartPeriod = d
			}
		}
	}

	return hc, nil
}

// GunicornWorkers extracts the worker count from a gunicorn invocation in
// CMD or ENTRYPOINT. Returns 0 when no worker flag is declared.
func (s *ImageSpec) GunicornWorkers() int {
	for _, tokens := range [][]string{s.Cmd, s.Entrypoint} {
		if n := workersFromTokens(tokens); n > 0 {
			return n
		}
	}
	return 0
}

func workersFromTokens(tokens []string) int {
	// Shell-form commands arrive as a single token; split them the same way
	// the shell would for flag scanning.
	if len(tokens) == 1 && strings.Contains(tokens[0], " ") {
		tokens = strings.Fields(tokens[0])
	}

	for i, token := range tokens {
		if token == "-w" || token == "--workers" {
			if i+1 < len(tokens) {
				if n, err := strconv.Atoi(tokens[i+1]); err == nil {
					return n
				}
			}
		}
		if value, ok := strings.CutPrefix(token, "--workers="); ok {
			if n, err := strconv.Atoi(value); err == nil {
				return n
			}
		}
	}
	return 0
}

// RunsGunicorn reports whether the image starts gunicorn
func (s *ImageSpec) RunsGunicorn() bool {
	for _, tokens := range [][]string{s.Cmd, s.Entrypoint} {
		for _, token := range tokens {
			if strings.Contains(token, "gunicorn") {
				return true
			}
		}
	}
	return false
}
