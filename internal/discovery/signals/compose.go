package signals

import (
	"context"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	composeTypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/jurisia/zarpar/internal/discovery/types"
	"github.com/jurisia/zarpar/internal/filesystems"
)

var composeFileNames = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// ComposeSignal detects services declared in a docker-compose file. JurisIA
// uses compose for local development, so its service shapes corroborate what
// the Dockerfile and Netlify signals find.
type ComposeSignal struct {
	filesystem  filesystems.FileSystem
	configPaths []string
	configDirs  map[string]string
}

func NewComposeSignal(filesystem filesystems.FileSystem) *ComposeSignal {
	return &ComposeSignal{filesystem: filesystem}
}

func (c *ComposeSignal) Confidence() int {
	return 90 // compose explicitly defines services
}

func (c *ComposeSignal) Reset() {
	c.configPaths = nil
	c.configDirs = make(map[string]string)
}

func (c *ComposeSignal) ObserveEntry(ctx context.Context, rootPath string, entry filesystems.DirEntry) error {
	if entry.IsDir() {
		return nil
	}

	for _, name := range composeFileNames {
		if strings.EqualFold(entry.Name(), name) {
			path := c.filesystem.Join(rootPath, entry.Name())
			c.configPaths = append(c.configPaths, path)
			c.configDirs[path] = rootPath
			break
		}
	}
	return nil
}

func (c *ComposeSignal) GenerateServices(ctx context.Context) ([]types.Service, error) {
	if len(c.configPaths) == 0 {
		return nil, nil
	}

	var services []types.Service
	for _, configPath := range c.configPaths {
		project, err := c.load(ctx, configPath)
		if err != nil {
			continue // broken compose file is not fatal to discovery
		}

		rootPath := c.configDirs[configPath]
		for name, composeService := range project.Services {
			service := types.Service{
				Name: name,
				Role: roleFromCompose(composeService),
				Configs: []types.ConfigRef{
					{Type: "docker-compose", Path: configPath},
				},
			}

			if composeService.Build != nil {
				service.Build = types.BuildFromSource
				service.BuildPath = c.filesystem.Join(rootPath, composeService.Build.Context)
			} else if composeService.Image != "" {
				service.Build = types.BuildFromImage
				service.Image = composeService.Image
			}

			if len(composeService.Ports) > 0 {
				service.Port = int(composeService.Ports[0].Target)
			}

			services = append(services, service)
		}
	}

	return services, nil
}

func (c *ComposeSignal) load(ctx context.Context, configPath string) (*composeTypes.Project, error) {
	content, err := c.filesystem.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	configDetails := composeTypes.ConfigDetails{
		WorkingDir: c.filesystem.Dir(configPath),
		ConfigFiles: []composeTypes.ConfigFile{
			{Filename: configPath, Content: content},
		},
	}

	return loader.LoadWithContext(ctx, configDetails, func(options *loader.Options) {
		options.SetProjectName(c.filesystem.Base(c.filesystem.Dir(configPath)), true)
		options.SkipConsistencyCheck = true
	})
}

func roleFromCompose(service composeTypes.ServiceConfig) types.Role {
	image := strings.ToLower(service.Image)
	for _, static := range []string{"nginx", "caddy", "httpd"} {
		if strings.Contains(image, static) {
			return types.RoleFrontend
		}
	}

	if len(service.Ports) > 0 || len(service.Expose) > 0 {
		return types.RoleBackend
	}
	return types.RoleUnknown
}
