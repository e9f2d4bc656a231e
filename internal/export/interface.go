package export

import "github.com/jurisia/zarpar/internal/schema"

// Exporter converts a deployment result to an output format
type Exporter interface {
	// Export converts a deployment to the target format
	Export(deployment *schema.Deployment) ([]byte, error)

	// Name returns the exporter name (e.g. "json")
	Name() string
}
