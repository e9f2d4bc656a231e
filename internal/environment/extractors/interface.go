package extractors

import (
	"context"

	"github.com/jurisia/zarpar/internal/environment/types"
)

// ContentExtractor pulls configuration variables out of one kind of file
type ContentExtractor interface {
	// Extract configuration variables from file content
	Extract(ctx context.Context, filename string, content []byte) ([]types.Var, error)

	// CanHandle returns true if this extractor can process the given file
	CanHandle(filename string) bool

	// Confidence returns the confidence level for this extractor (0-100)
	Confidence() int
}
