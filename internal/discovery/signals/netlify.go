package signals

import (
	"context"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jurisia/zarpar/internal/discovery/types"
	"github.com/jurisia/zarpar/internal/filesystems"
)

// NetlifySignal detects the static frontend from netlify.toml
type NetlifySignal struct {
	filesystem  filesystems.FileSystem
	configPaths []string
	configDirs  map[string]string
}

func NewNetlifySignal(filesystem filesystems.FileSystem) *NetlifySignal {
	return &NetlifySignal{filesystem: filesystem}
}

func (n *NetlifySignal) Confidence() int {
	return 95 // explicit production deployment spec
}

func (n *NetlifySignal) Reset() {
	n.configPaths = nil
	n.configDirs = make(map[string]string)
}

func (n *NetlifySignal) ObserveEntry(ctx context.Context, rootPath string, entry filesystems.DirEntry) error {
	if !entry.IsDir() && strings.EqualFold(entry.Name(), "netlify.toml") {
		configPath := n.filesystem.Join(rootPath, entry.Name())
		n.configPaths = append(n.configPaths, configPath)
		n.configDirs[configPath] = rootPath
	}
	return nil
}

func (n *NetlifySignal) GenerateServices(ctx context.Context) ([]types.Service, error) {
	if len(n.configPaths) == 0 {
		return nil, nil
	}

	var services []types.Service
	for _, configPath := range n.configPaths {
		config, err := n.parseConfig(configPath)
		if err != nil {
			return nil, err
		}

		rootPath := n.configDirs[configPath]
		service := types.Service{
			Role:      types.RoleFrontend,
			Build:     types.BuildFromSource,
			BuildPath: rootPath,
			Configs: []types.ConfigRef{
				{Type: "netlify", Path: configPath},
			},
		}

		if config.Build != nil {
			if config.Build.Base != "" {
				service.BuildPath = n.filesystem.Join(rootPath, config.Build.Base)
			}
			if config.Build.Publish != "" {
				service.PublishDir = n.filesystem.Join(service.BuildPath, config.Build.Publish)
			}
		}

		service.Name = serviceName(n.filesystem, service.BuildPath)
		services = append(services, service)
	}

	return services, nil
}

// NetlifyConfig is the subset of netlify.toml the pipeline cares about
type NetlifyConfig struct {
	Build     *NetlifyBuild     `toml:"build,omitempty"`
	Redirects []NetlifyRedirect `toml:"redirects,omitempty"`
	Headers   []NetlifyHeader   `toml:"headers,omitempty"`
}

type NetlifyBuild struct {
	Base        string            `toml:"base,omitempty"`
	Command     string            `toml:"command,omitempty"`
	Publish     string            `toml:"publish,omitempty"`
	Environment map[string]string `toml:"environment,omitempty"`
}

type NetlifyRedirect struct {
	From   string `toml:"from"`
	To     string `toml:"to"`
	Status int    `toml:"status,omitempty"`
	Force  bool   `toml:"force,omitempty"`
}

type NetlifyHeader struct {
	For    string            `toml:"for"`
	Values map[string]string `toml:"values"`
}

func (n *NetlifySignal) parseConfig(configPath string) (*NetlifyConfig, error) {
	content, err := n.filesystem.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config NetlifyConfig
	if _, err := toml.Decode(string(content), &config); err != nil {
		return nil, err
	}
	return &config, nil
}
