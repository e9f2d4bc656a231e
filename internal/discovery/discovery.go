// Package discovery walks a source tree and identifies its deployable
// services from the configuration files they leave behind.
package discovery

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jurisia/zarpar/internal/discovery/signals"
	"github.com/jurisia/zarpar/internal/discovery/types"
	"github.com/jurisia/zarpar/internal/filesystems"
)

// ServiceSignal accumulates evidence for services during the directory walk.
// Signals observe every entry once, then generate services from their full
// accumulated context.
type ServiceSignal interface {
	ObserveEntry(ctx context.Context, rootPath string, entry filesystems.DirEntry) error
	GenerateServices(ctx context.Context) ([]types.Service, error)
	Reset()

	// Confidence is used for conflict resolution when signals disagree
	// about the same build path, 0-100.
	Confidence() int
}

// WarningSignal flags configs the deploy pipeline will not act on
type WarningSignal interface {
	ObserveEntry(ctx context.Context, rootPath string, entry filesystems.DirEntry) error
	Warnings(ctx context.Context) []types.Warning
	Reset()
}

type ServiceDiscovery struct {
	signals        []ServiceSignal
	warningSignals []WarningSignal
	filesystem     filesystems.FileSystem
}

func NewServiceDiscovery(filesystem filesystems.FileSystem, sig ...ServiceSignal) *ServiceDiscovery {
	if len(sig) == 0 {
		sig = DefaultSignals(filesystem)
	}

	return &ServiceDiscovery{
		signals:        sig,
		warningSignals: []WarningSignal{signals.NewForeignConfigSignal(filesystem)},
		filesystem:     filesystem,
	}
}

func DefaultSignals(filesystem filesystems.FileSystem) []ServiceSignal {
	return []ServiceSignal{
		signals.NewNetlifySignal(filesystem),
		signals.NewComposeSignal(filesystem),
		signals.NewDockerfileSignal(filesystem),
		signals.NewPackageSignal(filesystem),
	}
}

type signalResult struct {
	services   []types.Service
	confidence int
}

type serviceWithConfidence struct {
	service    types.Service
	confidence int
}

// Discover walks the tree rooted at rootPath and returns the discovered
// services plus warnings about configs the pipeline does not deploy.
func (sd *ServiceDiscovery) Discover(ctx context.Context, rootPath string) ([]types.Service, []types.Warning, error) {
	for _, signal := range sd.signals {
		signal.Reset()
	}
	for _, signal := range sd.warningSignals {
		signal.Reset()
	}

	if err := sd.walk(ctx, rootPath, 4); err != nil {
		return nil, nil, fmt.Errorf("filesystem walk failed: %w", err)
	}

	var results []signalResult
	for _, signal := range sd.signals {
		services, err := signal.GenerateServices(ctx)
		if err != nil {
			continue // broken config is evidence lost, not a fatal error
		}
		if len(services) > 0 {
			results = append(results, signalResult{services: services, confidence: signal.Confidence()})
		}
	}

	var warnings []types.Warning
	for _, signal := range sd.warningSignals {
		warnings = append(warnings, signal.Warnings(ctx)...)
	}

	return triangulate(results), warnings, nil
}

// triangulate merges services that different signals observed at the same
// build path, keeping the highest-confidence shape and the union of configs.
func triangulate(results []signalResult) []types.Service {
	grouped := make(map[string][]serviceWithConfidence)
	var order []string

	for _, result := range results {
		for _, service := range result.services {
			key := service.BuildPath + ":" + service.Name
			if service.BuildPath == "" {
				key = "image:" + service.Image + ":" + service.Name
			}
			if _, seen := grouped[key]; !seen {
				order = append(order, key)
			}
			grouped[key] = append(grouped[key], serviceWithConfidence{service, result.confidence})
		}
	}

	var merged []types.Service
	for _, key := range order {
		group := grouped[key]

		var best types.Service
		var configs []types.ConfigRef
		configSet := make(map[string]bool)
		maxConfidence := -1

		for _, sc := range group {
			for _, config := range sc.service.Configs {
				configKey := config.Type + ":" + config.Path
				if !configSet[configKey] {
					configs = append(configs, config)
					configSet[configKey] = true
				}
			}
			if sc.confidence > maxConfidence {
				maxConfidence = sc.confidence
				best = sc.service
			}
		}

		// Lower-confidence signals may still know fields the winner doesn't
		for _, sc := range group {
			if best.Role == types.RoleUnknown {
				best.Role = sc.service.Role
			}
			if best.Port == 0 {
				best.Port = sc.service.Port
			}
			if best.PublishDir == "" {
				best.PublishDir = sc.service.PublishDir
			}
		}

		best.Configs = configs
		merged = append(merged, best)
	}

	return merged
}

var excludeDirs = []string{
	"node_modules", "vendor", "bower_components",
	"venv", "env", "__pycache__",
	"dist", "build", "out", ".next",
	"tmp", "temp", "cache", "logs", "coverage",
	"test", "tests",
}

var includeDotDirs = []string{".netlify"}

func shouldIgnoreDirectory(dirName string) bool {
	for _, pattern := range excludeDirs {
		if strings.EqualFold(dirName, pattern) {
			return true
		}
	}

	if strings.HasPrefix(dirName, ".") && len(dirName) > 1 && !slices.Contains(includeDotDirs, dirName) {
		return true
	}

	return strings.HasPrefix(dirName, "_")
}

type walkItem struct {
	path  string
	depth int
}

// walk traverses the tree iteratively, letting every signal observe each
// entry exactly once
func (sd *ServiceDiscovery) walk(ctx context.Context, rootPath string, maxDepth int) error {
	stack := []walkItem{{path: rootPath}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.depth > maxDepth {
			continue
		}
		if current.depth > 0 && shouldIgnoreDirectory(sd.filesystem.Base(current.path)) {
			continue
		}

		for entry, err := range sd.filesystem.ReadDir(current.path) {
			if err != nil {
				continue
			}

			for _, signal := range sd.signals {
				_ = signal.ObserveEntry(ctx, current.path, entry)
			}
			for _, signal := range sd.warningSignals {
				_ = signal.ObserveEntry(ctx, current.path, entry)
			}

			if entry.IsDir() {
				stack = append(stack, walkItem{
					path:  sd.filesystem.Join(current.path, entry.Name()),
					depth: current.depth + 1,
				})
			}
		}
	}

	return nil
}
