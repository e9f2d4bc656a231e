// Package environment extracts configuration variables from the files a
// deployment declares them in, so the report can list them with secrets
// redacted.
package environment

import (
	"context"

	"github.com/jurisia/zarpar/internal/environment/extractors"
	"github.com/jurisia/zarpar/internal/environment/types"
	"github.com/jurisia/zarpar/internal/filesystems"
)

type Extractor struct {
	filesystem filesystems.FileSystem
	extractors []extractors.ContentExtractor
}

func NewExtractor(filesystem filesystems.FileSystem) *Extractor {
	return &Extractor{
		filesystem: filesystem,
		extractors: []extractors.ContentExtractor{
			extractors.NewDockerfileExtractor(),
			extractors.NewDotEnvExtractor(),
			extractors.NewComposeExtractor(),
		},
	}
}

// Extract runs every extractor that can handle the file and streams the
// variables it finds
func (e *Extractor) Extract(ctx context.Context, filename string, content []byte) <-chan types.Var {
	results := make(chan types.Var, 32)

	go func() {
		defer close(results)

		for _, extractor := range e.extractors {
			if !extractor.CanHandle(filename) {
				continue
			}

			vars, err := extractor.Extract(ctx, filename, content)
			if err != nil {
				continue
			}

			for _, v := range vars {
				select {
				case results <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return results
}

// ExtractTree walks a service directory and returns the deduplicated
// variable set, keeping the highest-confidence source per variable name.
func (e *Extractor) ExtractTree(ctx context.Context, root string) (map[string]types.Var, error) {
	vars := make(map[string]types.Var)

	err := e.filesystem.Walk(root, func(path string, info filesystems.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil // skip unreadable entries
		}

		content, err := e.filesystem.ReadFile(path)
		if err != nil {
			return nil
		}

		for v := range e.Extract(ctx, path, content) {
			existing, exists := vars[v.Name]
			if !exists || v.Confidence > existing.Confidence {
				vars[v.Name] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return vars, nil
}
