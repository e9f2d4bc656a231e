package export

import (
	"encoding/json"

	"github.com/jurisia/zarpar/internal/schema"
)

type JSONExporter struct{}

func NewJSONExporter() Exporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Name() string {
	return "json"
}

func (e *JSONExporter) Export(deployment *schema.Deployment) ([]byte, error) {
	return json.MarshalIndent(deployment, "", "  ")
}
