// Package schema defines the exportable result of a pipeline run.
package schema

import (
	"time"

	"github.com/jurisia/zarpar/internal/bundle"
	"github.com/jurisia/zarpar/internal/container"
	"github.com/jurisia/zarpar/internal/discovery/types"
)

// Deployment is the complete result of a pipeline run
type Deployment struct {
	Project     string    `json:"project"`
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`

	Services   []Service             `json:"services"`
	Violations []container.Violation `json:"violations,omitempty"`
	Warnings   []Warning             `json:"warnings,omitempty"`
	Bundle     *bundle.Manifest      `json:"bundle,omitempty"`

	Environment map[string]EnvVar `json:"environment,omitempty"`
}

// Service is a discovered service in export form
type Service struct {
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Build      string   `json:"build"`
	BuildPath  string   `json:"buildPath,omitempty"`
	Image      string   `json:"image,omitempty"`
	PublishDir string   `json:"publishDir,omitempty"`
	Port       int      `json:"port,omitempty"`
	Configs    []string `json:"configs,omitempty"`
}

// Warning is a foreign-platform config warning in export form
type Warning struct {
	Platform string `json:"platform"`
	Path     string `json:"path"`
	Detail   string `json:"detail"`
}

// EnvVar is a configuration variable in export form. Sensitive values are
// redacted before they reach this type.
type EnvVar struct {
	Value     string `json:"value"`
	Source    string `json:"source"`
	Sensitive bool   `json:"sensitive"`
}

// NewDeployment creates an empty deployment result
func NewDeployment(project, version string) *Deployment {
	return &Deployment{
		Project:     project,
		Version:     version,
		GeneratedAt: time.Now(),
		Services:    make([]Service, 0),
		Environment: make(map[string]EnvVar),
	}
}

// AddService converts a discovered service into export form
func (d *Deployment) AddService(service types.Service) {
	exported := Service{
		Name:       service.Name,
		Role:       service.Role.String(),
		Build:      service.Build.String(),
		BuildPath:  service.BuildPath,
		Image:      service.Image,
		PublishDir: service.PublishDir,
		Port:       service.Port,
	}
	for _, config := range service.Configs {
		exported.Configs = append(exported.Configs, config.Type+":"+config.Path)
	}
	d.Services = append(d.Services, exported)
}

// AddWarning converts a discovery warning into export form
func (d *Deployment) AddWarning(warning types.Warning) {
	d.Warnings = append(d.Warnings, Warning{
		Platform: warning.Platform,
		Path:     warning.Path,
		Detail:   warning.Detail,
	})
}
