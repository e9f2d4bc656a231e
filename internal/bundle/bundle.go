// Package bundle computes the publish set of the static frontend: the files
// that survive the ignore rules, their content digests and total size.
package bundle

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/docker/go-units"
	"github.com/jurisia/zarpar/internal/filesystems"
	"github.com/jurisia/zarpar/internal/ignore"
	"golang.org/x/sync/errgroup"
)

// File is one published file, with the SHA-1 digest CDN deploy APIs key
// uploads on.
type File struct {
	Path string `json:"path"` // slash-separated, relative to the publish root
	Size int64  `json:"size"`
	SHA1 string `json:"sha1"`
}

// Manifest is the computed publish set
type Manifest struct {
	PublishDir string `json:"publishDir"`
	Files      []File `json:"files"`
	TotalSize  int64  `json:"totalSize"`
	Excluded   int    `json:"excluded"`
}

// HumanSize returns the total size in human-readable form
func (m *Manifest) HumanSize() string {
	return units.HumanSize(float64(m.TotalSize))
}

// digestWorkers bounds concurrent file reads while hashing
const digestWorkers = 8

// Build walks publishDir, applies the ignore rules and returns the manifest
// of files that would be deployed. Symlinks are not followed.
func Build(filesystem filesystems.FileSystem, publishDir string, rules *ignore.Ruleset) (*Manifest, error) {
	manifest := &Manifest{PublishDir: publishDir}

	var included []File
	err := filesystem.Walk(publishDir, func(path string, info filesystems.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if info.IsDir() || info.Mode()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, err := filesystem.Rel(publishDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if rules != nil && rules.Excluded(rel) {
			manifest.Excluded++
			return nil
		}

		included = append(included, File{Path: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("computing publish set: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(digestWorkers)
	for i := range included {
		g.Go(func() error {
			fullPath := filesystem.Join(publishDir, filepath.FromSlash(included[i].Path))
			content, err := filesystem.ReadFile(fullPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", included[i].Path, err)
			}
			sum := sha1.Sum(content)
			included[i].SHA1 = hex.EncodeToString(sum[:])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(included, func(i, j int) bool { return included[i].Path < included[j].Path })

	manifest.Files = included
	for _, f := range included {
		manifest.TotalSize += f.Size
	}

	return manifest, nil
}
