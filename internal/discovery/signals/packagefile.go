package signals

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jurisia/zarpar/internal/discovery/types"
	"github.com/jurisia/zarpar/internal/filesystems"
)

// PackageSignal infers service roles from package manager files: a
// requirements.txt pulling in flask means a Python backend, a package.json
// with a build script means a bundled frontend.
type PackageSignal struct {
	filesystem   filesystems.FileSystem
	packagePaths []string
	packageDirs  map[string]string
}

func NewPackageSignal(filesystem filesystems.FileSystem) *PackageSignal {
	return &PackageSignal{filesystem: filesystem}
}

func (p *PackageSignal) Confidence() int {
	return 50 // dependencies might be unused or transitive
}

func (p *PackageSignal) Reset() {
	p.packagePaths = nil
	p.packageDirs = make(map[string]string)
}

func (p *PackageSignal) ObserveEntry(ctx context.Context, rootPath string, entry filesystems.DirEntry) error {
	if entry.IsDir() {
		return nil
	}

	switch strings.ToLower(entry.Name()) {
	case "requirements.txt", "package.json", "pyproject.toml":
		path := p.filesystem.Join(rootPath, entry.Name())
		p.packagePaths = append(p.packagePaths, path)
		p.packageDirs[path] = rootPath
	}
	return nil
}

func (p *PackageSignal) GenerateServices(ctx context.Context) ([]types.Service, error) {
	if len(p.packagePaths) == 0 {
		return nil, nil
	}

	var services []types.Service
	for _, packagePath := range p.packagePaths {
		role := p.classify(packagePath)
		if role == types.RoleUnknown {
			continue
		}

		buildPath := p.packageDirs[packagePath]
		services = append(services, types.Service{
			Name:      serviceName(p.filesystem, buildPath),
			Role:      role,
			Build:     types.BuildFromSource,
			BuildPath: buildPath,
			Configs: []types.ConfigRef{
				{Type: "package", Path: packagePath},
			},
		})
	}

	return services, nil
}

func (p *PackageSignal) classify(packagePath string) types.Role {
	content, err := p.filesystem.ReadFile(packagePath)
	if err != nil {
		return types.RoleUnknown
	}

	switch strings.ToLower(p.filesystem.Base(packagePath)) {
	case "requirements.txt", "pyproject.toml":
		return pythonRole(string(content))
	case "package.json":
		return nodeRole(content)
	}
	return types.RoleUnknown
}

func pythonRole(content string) types.Role {
	lower := strings.ToLower(content)
	for _, framework := range []string{"flask", "django", "fastapi", "gunicorn"} {
		if strings.Contains(lower, framework) {
			return types.RoleBackend
		}
	}
	return types.RoleUnknown
}

func nodeRole(content []byte) types.Role {
	var pkg struct {
		Scripts      map[string]string `json:"scripts"`
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(content, &pkg); err != nil {
		return types.RoleUnknown
	}

	if _, ok := pkg.Scripts["build"]; ok {
		return types.RoleFrontend
	}
	for _, framework := range []string{"react", "vue", "svelte", "vite"} {
		if _, ok := pkg.Dependencies[framework]; ok {
			return types.RoleFrontend
		}
	}
	return types.RoleUnknown
}
