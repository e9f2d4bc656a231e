package extractors

import (
	"context"
	"fmt"
	"strings"

	"github.com/jurisia/zarpar/internal/environment/types"
	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

// DockerfileExtractor collects ENV instructions from Dockerfiles
type DockerfileExtractor struct{}

func NewDockerfileExtractor() *DockerfileExtractor {
	return &DockerfileExtractor{}
}

func (d *DockerfileExtractor) CanHandle(filename string) bool {
	return strings.Contains(strings.ToLower(filename), "dockerfile")
}

func (d *DockerfileExtractor) Confidence() int {
	return 60
}

func (d *DockerfileExtractor) Extract(ctx context.Context, filename string, content []byte) ([]types.Var, error) {
	ast, err := parser.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, err
	}

	source := fmt.Sprintf("dockerfile:%s", filename)

	var results []types.Var
	for _, node := range ast.AST.Children {
		if !strings.EqualFold(node.Value, "ENV") {
			continue
		}

		for name, value := range envPairs(node) {
			if types.ShouldIgnore(name) {
				continue
			}

			kind, sensitive := types.Classify(name, value)
			results = append(results, types.Var{
				Name:       name,
				Value:      value,
				Kind:       kind,
				Sensitive:  sensitive,
				Source:     source,
				Confidence: d.Confidence(),
			})
		}
	}

	return results, nil
}

// envPairs flattens an ENV node. The parser emits alternating name and
// value nodes for both ENV key=value and the legacy space-separated form.
func envPairs(node *parser.Node) map[string]string {
	var args []string
	for n := node.Next; n != nil; n = n.Next {
		args = append(args, n.Value)
	}

	pairs := make(map[string]string)
	for i := 0; i+1 < len(args); i += 2 {
		pairs[args[i]] = trimQuotes(args[i+1])
	}

	return pairs
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
