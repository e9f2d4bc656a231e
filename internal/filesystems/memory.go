package filesystems

import (
	"fmt"
	"io/fs"
	"iter"
	"path"
	"sort"
	"strings"
	"time"
)

// MemoryFS implements FileSystem over an in-memory file map. Used by tests
// to build source-tree fixtures without touching disk.
type MemoryFS struct {
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemoryFS creates an empty MemoryFS
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file, creating parent directories implicitly
func (mfs *MemoryFS) AddFile(name string, content []byte) {
	clean := path.Clean(name)
	mfs.files[clean] = content
	mfs.addParents(clean)
}

// AddDir adds an empty directory
func (mfs *MemoryFS) AddDir(name string) {
	clean := path.Clean(name)
	mfs.dirs[clean] = true
	mfs.addParents(clean)
}

func (mfs *MemoryFS) addParents(name string) {
	for dir := path.Dir(name); dir != "." && dir != "/"; dir = path.Dir(dir) {
		mfs.dirs[dir] = true
	}
}

func (mfs *MemoryFS) ReadFile(name string) ([]byte, error) {
	content, ok := mfs.files[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	return content, nil
}

func (mfs *MemoryFS) ReadDir(name string) iter.Seq2[DirEntry, error] {
	return func(yield func(DirEntry, error) bool) {
		clean := path.Clean(name)
		if clean != "." && !mfs.dirs[clean] {
			yield(nil, fmt.Errorf("directory not found: %s", name))
			return
		}

		names := mfs.children(clean)
		sort.Strings(names)

		for _, child := range names {
			full := child
			if clean != "." {
				full = path.Join(clean, child)
			}
			entry := &memoryDirEntry{
				name:     child,
				isDir:    mfs.dirs[full],
				fullPath: full,
				mfs:      mfs,
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// children returns the direct child names of dir
func (mfs *MemoryFS) children(dir string) []string {
	seen := make(map[string]bool)
	collect := func(p string) {
		var remainder string
		if dir == "." {
			remainder = p
		} else if strings.HasPrefix(p, dir+"/") {
			remainder = strings.TrimPrefix(p, dir+"/")
		} else {
			return
		}
		if remainder == "" {
			return
		}
		seen[strings.SplitN(remainder, "/", 2)[0]] = true
	}

	for p := range mfs.files {
		collect(p)
	}
	for p := range mfs.dirs {
		collect(p)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names
}

func (mfs *MemoryFS) Walk(root string, fn WalkFunc) error {
	clean := path.Clean(root)

	var walk func(string) error
	walk = func(p string) error {
		info, err := mfs.stat(p)
		if err != nil {
			return fn(p, nil, err)
		}

		if err := fn(p, info, nil); err != nil {
			if err == SkipDir && info.IsDir() {
				return nil
			}
			return err
		}

		if !info.IsDir() {
			return nil
		}

		for entry, err := range mfs.ReadDir(p) {
			if err != nil {
				continue
			}
			child := entry.Name()
			if p != "." {
				child = path.Join(p, entry.Name())
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(clean)
}

func (mfs *MemoryFS) stat(p string) (FileInfo, error) {
	if p == "." || mfs.dirs[p] {
		return &memoryFileInfo{name: path.Base(p), mode: fs.ModeDir | 0755, isDir: true}, nil
	}
	if content, ok := mfs.files[p]; ok {
		return &memoryFileInfo{name: path.Base(p), size: int64(len(content)), mode: 0644}, nil
	}
	return nil, fmt.Errorf("not found: %s", p)
}

func (mfs *MemoryFS) Join(elem ...string) string {
	return path.Join(elem...)
}

func (mfs *MemoryFS) Base(p string) string {
	return path.Base(p)
}

func (mfs *MemoryFS) Dir(p string) string {
	return path.Dir(p)
}

func (mfs *MemoryFS) Rel(basepath, targpath string) (string, error) {
	base := path.Clean(basepath)
	target := path.Clean(targpath)

	if base == target {
		return ".", nil
	}
	if base == "." {
		return target, nil
	}
	if strings.HasPrefix(target, base+"/") {
		return strings.TrimPrefix(target, base+"/"), nil
	}
	return "", fmt.Errorf("cannot make %s relative to %s", targpath, basepath)
}

// memoryDirEntry implements DirEntry for MemoryFS
type memoryDirEntry struct {
	name     string
	isDir    bool
	fullPath string
	mfs      *MemoryFS
}

func (e *memoryDirEntry) Name() string { return e.name }
func (e *memoryDirEntry) IsDir() bool  { return e.isDir }

func (e *memoryDirEntry) Type() fs.FileMode {
	if e.isDir {
		return fs.ModeDir
	}
	return 0
}

func (e *memoryDirEntry) Info() (FileInfo, error) {
	return e.mfs.stat(e.fullPath)
}

// memoryFileInfo implements FileInfo for MemoryFS
type memoryFileInfo struct {
	name  string
	size  int64
	mode  fs.FileMode
	isDir bool
}

func (fi *memoryFileInfo) Name() string       { return fi.name }
func (fi *memoryFileInfo) Size() int64        { return fi.size }
func (fi *memoryFileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *memoryFileInfo) ModTime() time.Time { return time.Time{} }
func (fi *memoryFileInfo) IsDir() bool        { return fi.isDir }
func (fi *memoryFileInfo) Sys() interface{}   { return nil }
