package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jurisia/zarpar/internal/bundle"
	"github.com/jurisia/zarpar/internal/config"
	"github.com/jurisia/zarpar/internal/container"
	"github.com/jurisia/zarpar/internal/discovery"
	"github.com/jurisia/zarpar/internal/discovery/types"
	"github.com/jurisia/zarpar/internal/environment"
	envTypes "github.com/jurisia/zarpar/internal/environment/types"
	"github.com/jurisia/zarpar/internal/filesystems"
	"github.com/jurisia/zarpar/internal/ignore"
)

// project bundles everything the subcommands need about a source tree
type project struct {
	filesystem filesystems.FileSystem
	root       string
	manifest   *config.Manifest
	services   []types.Service
	warnings   []types.Warning
}

func openProject(ctx context.Context, sourcePath string) (*project, error) {
	filesystem, err := filesystems.NewFileSystem(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem: %w", err)
	}
	root := filesystems.BasePath(sourcePath)

	manifest, err := config.Load(filesystem, root)
	if err != nil {
		return nil, err
	}

	services, warnings, err := discovery.NewServiceDiscovery(filesystem).Discover(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("service discovery failed: %w", err)
	}

	return &project{
		filesystem: filesystem,
		root:       root,
		manifest:   manifest,
		services:   services,
		warnings:   warnings,
	}, nil
}

// backendDockerfile locates the backend Dockerfile: the manifest wins,
// discovery fills in when the manifest is silent.
func (p *project) backendDockerfile() string {
	if p.manifest.Backend.Dockerfile != "" {
		return p.filesystem.Join(p.root, p.manifest.Backend.Dockerfile)
	}

	for _, service := range p.services {
		if service.Role != types.RoleBackend {
			continue
		}
		for _, ref := range service.Configs {
			if ref.Type == "dockerfile" {
				return ref.Path
			}
		}
	}
	return ""
}

// checkContainer verifies the backend image against the deploy contract
func (p *project) checkContainer() ([]container.Violation, error) {
	dockerfilePath := p.backendDockerfile()
	if dockerfilePath == "" {
		return []container.Violation{{
			Rule:   "dockerfile",
			Detail: "no backend Dockerfile found",
		}}, nil
	}

	content, err := p.filesystem.ReadFile(dockerfilePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dockerfilePath, err)
	}

	spec, err := container.ParseDockerfile(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dockerfilePath, err)
	}

	return container.Verify(spec, p.manifest.Contract()), nil
}

// ignoreRules loads the publish ignore ruleset: manifest-declared file, then
// .deployignore at the root, then the compiled-in defaults.
func (p *project) ignoreRules() (*ignore.Ruleset, error) {
	ignorePath := ""
	if p.manifest.Frontend.IgnoreFile != "" {
		ignorePath = p.filesystem.Join(p.root, p.manifest.Frontend.IgnoreFile)
	} else {
		found, err := filesystems.FindFile(p.filesystem, p.root, ignore.IgnoreFileName)
		if err == nil {
			ignorePath = found
		}
	}

	if ignorePath == "" {
		return ignore.Default(), nil
	}

	content, err := p.filesystem.ReadFile(ignorePath)
	if err != nil {
		if p.manifest.Frontend.IgnoreFile != "" {
			return nil, fmt.Errorf("reading ignore file: %w", err)
		}
		return ignore.Default(), nil
	}

	rules, err := ignore.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ignorePath, err)
	}
	return rules, nil
}

// publishDir resolves the frontend publish directory: manifest first, then
// whatever discovery found in netlify.toml.
func (p *project) publishDir() string {
	if p.manifest.Frontend.PublishDir != "" {
		return p.filesystem.Join(p.root, p.manifest.Frontend.PublishDir)
	}

	for _, service := range p.services {
		if service.Role == types.RoleFrontend && service.PublishDir != "" {
			return service.PublishDir
		}
	}
	return ""
}

// buildBundle computes the publish set
func (p *project) buildBundle() (*bundle.Manifest, error) {
	publishDir := p.publishDir()
	if publishDir == "" {
		return nil, fmt.Errorf("no publish directory: set frontend.publish_dir in %s", config.ManifestFileName)
	}

	rules, err := p.ignoreRules()
	if err != nil {
		return nil, err
	}

	return bundle.Build(p.filesystem, publishDir, rules)
}

// extractEnv collects configuration variables from every discovered service
func (p *project) extractEnv(ctx context.Context) (map[string]envTypes.Var, error) {
	extractor := environment.NewExtractor(p.filesystem)

	vars := make(map[string]envTypes.Var)
	seen := make(map[string]bool)

	for _, service := range p.services {
		buildPath := service.BuildPath
		if buildPath == "" || seen[buildPath] {
			continue
		}
		seen[buildPath] = true

		serviceVars, err := extractor.ExtractTree(ctx, buildPath)
		if err != nil {
			return nil, err
		}
		for name, v := range serviceVars {
			existing, exists := vars[name]
			if !exists || v.Confidence > existing.Confidence {
				vars[name] = v
			}
		}
	}

	return vars, nil
}
