package signals

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/GoogleContainerTools/skaffold/pkg/skaffold/schema/latest"
	"github.com/jurisia/zarpar/internal/discovery/types"
	"github.com/jurisia/zarpar/internal/filesystems"
	"gopkg.in/yaml.v3"
)

// ForeignConfigSignal flags deployment configs for platforms the
// Netlify+container pipeline does not deploy to. A fly.toml left over from
// an experiment would be silently ignored at deploy time; surfacing it as a
// warning beats finding out in production.
type ForeignConfigSignal struct {
	filesystem filesystems.FileSystem
	found      map[string]string // path -> platform
}

func NewForeignConfigSignal(filesystem filesystems.FileSystem) *ForeignConfigSignal {
	return &ForeignConfigSignal{filesystem: filesystem}
}

var foreignConfigFiles = map[string]string{
	"fly.toml":      "fly",
	"skaffold.yaml": "skaffold",
	"skaffold.yml":  "skaffold",
	"render.yaml":   "render",
}

func (f *ForeignConfigSignal) Reset() {
	f.found = make(map[string]string)
}

func (f *ForeignConfigSignal) ObserveEntry(ctx context.Context, rootPath string, entry filesystems.DirEntry) error {
	if entry.IsDir() {
		return nil
	}

	if platform, ok := foreignConfigFiles[strings.ToLower(entry.Name())]; ok {
		f.found[f.filesystem.Join(rootPath, entry.Name())] = platform
	}
	return nil
}

func (f *ForeignConfigSignal) Warnings(ctx context.Context) []types.Warning {
	var warnings []types.Warning
	for path, platform := range f.found {
		warnings = append(warnings, types.Warning{
			Platform: platform,
			Path:     path,
			Detail:   f.describe(path, platform),
		})
	}
	return warnings
}

// describe parses the foreign config enough to say what the deploy would
// leave behind
func (f *ForeignConfigSignal) describe(path, platform string) string {
	content, err := f.filesystem.ReadFile(path)
	if err != nil {
		return "config for a platform this pipeline does not deploy to"
	}

	switch platform {
	case "fly":
		var config struct {
			App string `toml:"app"`
		}
		if _, err := toml.Decode(string(content), &config); err == nil && config.App != "" {
			return fmt.Sprintf("declares Fly.io app %q, which this pipeline does not deploy", config.App)
		}

	case "skaffold":
		var config latest.SkaffoldConfig
		if err := yaml.Unmarshal(content, &config); err == nil && len(config.Build.Artifacts) > 0 {
			names := make([]string, 0, len(config.Build.Artifacts))
			for _, artifact := range config.Build.Artifacts {
				names = append(names, artifact.ImageName)
			}
			return fmt.Sprintf("declares Skaffold artifacts %s, which this pipeline does not build", strings.Join(names, ", "))
		}

	case "render":
		var config struct {
			Services []struct {
				Name string `yaml:"name"`
			} `yaml:"services"`
		}
		if err := yaml.Unmarshal(content, &config); err == nil && len(config.Services) > 0 {
			return fmt.Sprintf("declares %d Render service(s), which this pipeline does not deploy", len(config.Services))
		}
	}

	return "config for a platform this pipeline does not deploy to"
}
