// Package config loads the zarpar.yaml deploy manifest: project metadata
// plus overrides for the container contract and publish bundle.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jurisia/zarpar/internal/container"
	"github.com/jurisia/zarpar/internal/filesystems"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is looked up at the project root
const ManifestFileName = "zarpar.yaml"

// Duration wraps time.Duration for yaml decoding of values like "30s"
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Manifest is the deploy manifest
type Manifest struct {
	Project  string   `yaml:"project"`
	Version  string   `yaml:"version"`
	Frontend Frontend `yaml:"frontend"`
	Backend  Backend  `yaml:"backend"`
}

type Frontend struct {
	URL        string `yaml:"url"`
	PublishDir string `yaml:"publish_dir"`
	IgnoreFile string `yaml:"ignore_file"`
}

type Backend struct {
	URL            string   `yaml:"url"`
	Dockerfile     string   `yaml:"dockerfile"`
	Port           int      `yaml:"port"`
	HealthPath     string   `yaml:"health_path"`
	HealthInterval Duration `yaml:"health_interval"`
	HealthRetries  int      `yaml:"health_retries"`
	Workers        int      `yaml:"workers"`
}

// Default returns the JurisIA manifest used when the project carries no
// zarpar.yaml
func Default() *Manifest {
	return &Manifest{
		Project: "JurisIA",
		Version: "0.0.0",
		Frontend: Frontend{
			URL:        "https://jurisia.netlify.app",
			PublishDir: "frontend/dist",
		},
		Backend: Backend{
			URL:            "https://api.jurisia.com.br",
			Port:           5005,
			HealthPath:     "/api/health",
			HealthInterval: Duration(30 * time.Second),
			HealthRetries:  3,
			Workers:        4,
		},
	}
}

// Load reads zarpar.yaml from dir, falling back to defaults when the file
// does not exist. Fields missing from the file keep their default values.
func Load(filesystem filesystems.FileSystem, dir string) (*Manifest, error) {
	manifest := Default()

	path, err := filesystems.FindFile(filesystem, dir, ManifestFileName)
	if err != nil || path == "" {
		return manifest, nil
	}

	content, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return manifest, nil
}

// Validate checks field ranges and URL shapes
func (m *Manifest) Validate() error {
	if m.Backend.Port < 1 || m.Backend.Port > 65535 {
		return fmt.Errorf("backend port %d out of range", m.Backend.Port)
	}
	if m.Backend.HealthInterval <= 0 {
		return fmt.Errorf("backend health_interval must be positive")
	}
	if m.Backend.HealthRetries < 1 {
		return fmt.Errorf("backend health_retries must be at least 1")
	}
	if !strings.HasPrefix(m.Backend.HealthPath, "/") {
		return fmt.Errorf("backend health_path %q must start with /", m.Backend.HealthPath)
	}

	for name, raw := range map[string]string{
		"frontend url": m.Frontend.URL,
		"backend url":  m.Backend.URL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("%s %q is not an absolute URL", name, raw)
		}
	}

	return nil
}

// Contract builds the container contract from the manifest
func (m *Manifest) Contract() container.Contract {
	return container.Contract{
		Port:           m.Backend.Port,
		HealthPath:     m.Backend.HealthPath,
		HealthInterval: m.Backend.HealthInterval.Std(),
		HealthRetries:  m.Backend.HealthRetries,
		Workers:        m.Backend.Workers,
		ForbidRoot:     true,
	}
}
