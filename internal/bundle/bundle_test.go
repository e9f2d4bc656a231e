package bundle

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/jurisia/zarpar/internal/filesystems"
	"github.com/jurisia/zarpar/internal/ignore"
)

func publishFixture() *filesystems.MemoryFS {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("frontend/dist/index.html", []byte("<html>jurisia</html>"))
	mfs.AddFile("frontend/dist/assets/app.js", []byte("console.log('ok')"))
	mfs.AddFile("frontend/dist/README.md", []byte("# JurisIA"))
	mfs.AddFile("frontend/dist/docs/setup.md", []byte("internal notes"))
	mfs.AddFile("frontend/dist/helper.py", []byte("print('stray')"))
	return mfs
}

func TestBuild(t *testing.T) {
	mfs := publishFixture()

	manifest, err := Build(mfs, "frontend/dist", ignore.Default())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	paths := make(map[string]File)
	for _, f := range manifest.Files {
		paths[f.Path] = f
	}

	for _, want := range []string{"index.html", "assets/app.js", "README.md"} {
		if _, ok := paths[want]; !ok {
			t.Errorf("expected %s in publish set, got %v", want, manifest.Files)
		}
	}
	for _, excluded := range []string{"docs/setup.md", "helper.py"} {
		if _, ok := paths[excluded]; ok {
			t.Errorf("%s should be excluded from the publish set", excluded)
		}
	}

	if manifest.Excluded != 2 {
		t.Errorf("Excluded = %d, want 2", manifest.Excluded)
	}

	wantSize := int64(len("<html>jurisia</html>") + len("console.log('ok')") + len("# JurisIA"))
	if manifest.TotalSize != wantSize {
		t.Errorf("TotalSize = %d, want %d", manifest.TotalSize, wantSize)
	}

	sum := sha1.Sum([]byte("<html>jurisia</html>"))
	if paths["index.html"].SHA1 != hex.EncodeToString(sum[:]) {
		t.Errorf("index.html digest = %s", paths["index.html"].SHA1)
	}

	if manifest.HumanSize() == "" {
		t.Error("HumanSize returned empty string")
	}
}

func TestBuildSortsFiles(t *testing.T) {
	mfs := publishFixture()

	manifest, err := Build(mfs, "frontend/dist", ignore.Default())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := 1; i < len(manifest.Files); i++ {
		if manifest.Files[i-1].Path >= manifest.Files[i].Path {
			t.Fatalf("files not sorted: %v", manifest.Files)
		}
	}
}

func TestBuildMissingPublishDir(t *testing.T) {
	mfs := filesystems.NewMemoryFS()

	if _, err := Build(mfs, "frontend/dist", ignore.Default()); err == nil {
		t.Fatal("expected error for missing publish dir")
	}
}

func TestBuildNoRules(t *testing.T) {
	mfs := publishFixture()

	manifest, err := Build(mfs, "frontend/dist", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(manifest.Files) != 5 {
		t.Errorf("expected all 5 files without rules, got %d", len(manifest.Files))
	}
}
