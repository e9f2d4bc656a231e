// Package report renders the deployment report the pipeline leaves behind
// after a deploy: a Portuguese-language summary of what shipped, written to
// deployment-report.txt.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"
	"time"

	"github.com/jurisia/zarpar/internal/container"
	"github.com/jurisia/zarpar/internal/discovery/types"
	envTypes "github.com/jurisia/zarpar/internal/environment/types"
)

// FileName is the report file written at the project root
const FileName = "deployment-report.txt"

// redacted replaces sensitive values everywhere the report prints them
const redacted = "[SENSÍVEL]"

// Var is a configuration variable as the report shows it
type Var struct {
	Name  string
	Value string
}

// Data is everything the report template needs
type Data struct {
	Project     string
	Version     string
	GeneratedAt time.Time

	FrontendURL string
	BackendURL  string
	HealthPath  string

	BuildSize     string
	FileCount     int
	ExcludedCount int

	Vars       []Var
	Violations []container.Violation
	Warnings   []types.Warning
}

// NewData assembles report data, redacting sensitive variables and sorting
// them by name.
func NewData(project, version string, vars map[string]envTypes.Var) Data {
	data := Data{
		Project:     project,
		Version:     version,
		GeneratedAt: time.Now(),
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := vars[name]
		value := v.Value
		if v.Sensitive {
			value = redacted
		}
		data.Vars = append(data.Vars, Var{Name: name, Value: value})
	}

	return data
}

var reportTemplate = template.Must(template.New("report").Parse(`==========================================
 RELATÓRIO DE DEPLOY - {{.Project}}
==========================================

Data:    {{.GeneratedAt.Format "02/01/2006 15:04:05"}}
Versão:  {{.Version}}

FRONTEND:
  URL:                 {{.FrontendURL}}
  Tamanho do build:    {{.BuildSize}}
  Arquivos publicados: {{.FileCount}}{{if .ExcludedCount}} ({{.ExcludedCount}} ignorados){{end}}

BACKEND:
  URL:          {{.BackendURL}}
  Health check: {{.BackendURL}}{{.HealthPath}}
{{if .Vars}}
VARIÁVEIS DE CONFIGURAÇÃO:
{{- range .Vars}}
  {{.Name}} = {{.Value}}
{{- end}}
{{end}}
VERIFICAÇÕES:
{{- if .Violations}}
{{- range .Violations}}
  [FALHOU] {{.Rule}}: {{.Detail}}
{{- end}}
{{- else}}
  [OK] container em conformidade com o contrato de deploy
{{- end}}
{{- range .Warnings}}
  [AVISO] {{.Path}}: {{.Detail}}
{{- end}}

PRÓXIMOS PASSOS:
1. Verificar o site em {{.FrontendURL}}
2. Testar a API em {{.BackendURL}}{{.HealthPath}}
3. Configurar o domínio personalizado no painel da Netlify
4. Monitorar os logs do backend nas primeiras horas
5. Executar os testes de fumaça do checklist de release
`))

// Render produces the report text
func Render(data Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders the report and writes it to dir. Returns the path written.
func Write(dir string, data Data) (string, error) {
	content, err := Render(data)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
