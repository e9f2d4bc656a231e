package signals

import (
	"context"
	"strings"

	"github.com/jurisia/zarpar/internal/container"
	"github.com/jurisia/zarpar/internal/discovery/types"
	"github.com/jurisia/zarpar/internal/filesystems"
)

// DockerfileSignal detects containerized services from Dockerfiles and pulls
// the declared listen port out of the image spec.
type DockerfileSignal struct {
	filesystem      filesystems.FileSystem
	dockerfilePaths []string
	dockerfileDirs  map[string]string
}

func NewDockerfileSignal(filesystem filesystems.FileSystem) *DockerfileSignal {
	return &DockerfileSignal{filesystem: filesystem}
}

func (d *DockerfileSignal) Confidence() int {
	return 70 // indicates a buildable service, not a deployment target
}

func (d *DockerfileSignal) Reset() {
	d.dockerfilePaths = nil
	d.dockerfileDirs = make(map[string]string)
}

func (d *DockerfileSignal) ObserveEntry(ctx context.Context, rootPath string, entry filesystems.DirEntry) error {
	if entry.IsDir() {
		return nil
	}

	name := strings.ToLower(entry.Name())
	if name == "dockerfile" || strings.HasPrefix(name, "dockerfile.") {
		path := d.filesystem.Join(rootPath, entry.Name())
		d.dockerfilePaths = append(d.dockerfilePaths, path)
		d.dockerfileDirs[path] = rootPath
	}
	return nil
}

func (d *DockerfileSignal) GenerateServices(ctx context.Context) ([]types.Service, error) {
	if len(d.dockerfilePaths) == 0 {
		return nil, nil
	}

	var services []types.Service
	for _, path := range d.dockerfilePaths {
		rootPath := d.dockerfileDirs[path]
		service := types.Service{
			Name:      serviceName(d.filesystem, rootPath),
			Role:      types.RoleBackend,
			Build:     types.BuildFromSource,
			BuildPath: rootPath,
			Configs: []types.ConfigRef{
				{Type: "dockerfile", Path: path},
			},
		}

		if content, err := d.filesystem.ReadFile(path); err == nil {
			if spec, err := container.ParseDockerfile(content); err == nil {
				if len(spec.ExposedPorts) > 0 {
					service.Port = spec.ExposedPorts[0]
				}
			}
		}

		services = append(services, service)
	}

	return services, nil
}
