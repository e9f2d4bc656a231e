package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/jurisia/zarpar/internal/environment/types"
)

// ComposeExtractor collects environment blocks from docker-compose files
type ComposeExtractor struct{}

func NewComposeExtractor() *ComposeExtractor {
	return &ComposeExtractor{}
}

func (c *ComposeExtractor) CanHandle(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	switch base {
	case "docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml":
		return true
	}
	return false
}

func (c *ComposeExtractor) Confidence() int {
	return 75
}

func (c *ComposeExtractor) Extract(ctx context.Context, filename string, content []byte) ([]types.Var, error) {
	configDetails := composeTypes.ConfigDetails{
		WorkingDir: filepath.Dir(filename),
		ConfigFiles: []composeTypes.ConfigFile{
			{Filename: filename, Content: content},
		},
	}

	project, err := loader.LoadWithContext(ctx, configDetails, func(options *loader.Options) {
		options.SetProjectName("extract", true)
		options.SkipConsistencyCheck = true
		options.SkipInterpolation = true
	})
	if err != nil {
		return nil, err
	}

	var results []types.Var
	for serviceName, service := range project.Services {
		source := fmt.Sprintf("docker-compose:%s (service %s)", filename, serviceName)

		for name, valuePtr := range service.Environment {
			value := ""
			if valuePtr != nil {
				value = *valuePtr
			}

			kind, sensitive := types.Classify(name, value)
			results = append(results, types.Var{
				Name:       name,
				Value:      value,
				Kind:       kind,
				Sensitive:  sensitive,
				Source:     source,
				Confidence: c.Confidence(),
			})
		}
	}

	return results, nil
}
