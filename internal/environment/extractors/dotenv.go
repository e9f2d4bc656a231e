package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/jurisia/zarpar/internal/environment/types"
)

// DotEnvExtractor reads .env files
type DotEnvExtractor struct{}

func NewDotEnvExtractor() *DotEnvExtractor {
	return &DotEnvExtractor{}
}

func (d *DotEnvExtractor) CanHandle(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	return strings.HasPrefix(base, ".env")
}

func (d *DotEnvExtractor) Confidence() int {
	return 85
}

func (d *DotEnvExtractor) Extract(ctx context.Context, filename string, content []byte) ([]types.Var, error) {
	env, err := godotenv.Unmarshal(string(content))
	if err != nil {
		return nil, err
	}

	confidence := d.fileConfidence(filepath.Base(filename))

	var results []types.Var
	for name, value := range env {
		kind, sensitive := types.Classify(name, value)
		results = append(results, types.Var{
			Name:       name,
			Value:      value,
			Kind:       kind,
			Sensitive:  sensitive,
			Source:     fmt.Sprintf("dotenv:%s", filename),
			Confidence: confidence,
		})
	}

	return results, nil
}

func (d *DotEnvExtractor) fileConfidence(filename string) int {
	switch {
	case strings.Contains(filename, "production"):
		return 90
	case strings.Contains(filename, "example") || strings.Contains(filename, "sample"):
		return 30 // placeholder values, not real config
	default:
		return 85
	}
}
