package discovery

import (
	"context"
	"testing"

	"github.com/jurisia/zarpar/internal/discovery/types"
	"github.com/jurisia/zarpar/internal/filesystems"
)

const testNetlifyToml = `[build]
  base = "frontend"
  command = "npm run build"
  publish = "dist"

[[redirects]]
  from = "/api/*"
  to = "https://api.jurisia.com.br/api/:splat"
  status = 200
`

const testDockerfile = `FROM python:3.11-slim
WORKDIR /app
USER appuser
EXPOSE 5005
HEALTHCHECK --interval=30s --retries=3 CMD curl -f http://localhost:5005/api/health
CMD ["gunicorn", "--bind", "0.0.0.0:5005", "--workers", "4", "app:create_app()"]
`

func fixtureTree() *filesystems.MemoryFS {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("netlify.toml", []byte(testNetlifyToml))
	mfs.AddFile("backend/Dockerfile", []byte(testDockerfile))
	mfs.AddFile("backend/requirements.txt", []byte("flask==3.0.0\ngunicorn==21.2.0\n"))
	mfs.AddFile("frontend/package.json", []byte(`{"scripts": {"build": "vite build"}}`))
	return mfs
}

func TestDiscover(t *testing.T) {
	mfs := fixtureTree()
	sd := NewServiceDiscovery(mfs)

	services, warnings, err := sd.Discover(context.Background(), ".")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	var frontend, backend *types.Service
	for i := range services {
		switch services[i].Role {
		case types.RoleFrontend:
			frontend = &services[i]
		case types.RoleBackend:
			backend = &services[i]
		}
	}

	if frontend == nil {
		t.Fatalf("no frontend service discovered, got %+v", services)
	}
	if frontend.PublishDir != "frontend/dist" {
		t.Errorf("frontend PublishDir = %q, want frontend/dist", frontend.PublishDir)
	}

	if backend == nil {
		t.Fatalf("no backend service discovered, got %+v", services)
	}
	if backend.Port != 5005 {
		t.Errorf("backend Port = %d, want 5005", backend.Port)
	}
	if backend.BuildPath != "backend" {
		t.Errorf("backend BuildPath = %q, want backend", backend.BuildPath)
	}

	// Dockerfile and requirements.txt observe the same path; triangulation
	// must merge them into one service with both config refs.
	if len(backend.Configs) < 2 {
		t.Errorf("backend configs = %v, want dockerfile and package refs merged", backend.Configs)
	}
}

func TestDiscoverForeignConfigs(t *testing.T) {
	mfs := fixtureTree()
	mfs.AddFile("fly.toml", []byte("app = \"jurisia-staging\"\n"))

	sd := NewServiceDiscovery(mfs)
	_, warnings, err := sd.Discover(context.Background(), ".")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if warnings[0].Platform != "fly" {
		t.Errorf("warning platform = %q, want fly", warnings[0].Platform)
	}
}

func TestDiscoverSkipsDependencyDirs(t *testing.T) {
	mfs := fixtureTree()
	mfs.AddFile("frontend/node_modules/leftpad/package.json", []byte(`{"scripts": {"build": "true"}}`))

	sd := NewServiceDiscovery(mfs)
	services, _, err := sd.Discover(context.Background(), ".")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	for _, service := range services {
		if service.Name == "leftpad" {
			t.Errorf("discovered service inside node_modules: %+v", service)
		}
	}
}

func TestShouldIgnoreDirectory(t *testing.T) {
	cases := []struct {
		dir    string
		ignore bool
	}{
		{"node_modules", true},
		{"__pycache__", true},
		{".git", true},
		{".netlify", false},
		{"frontend", false},
		{"backend", false},
	}

	for _, tc := range cases {
		if got := shouldIgnoreDirectory(tc.dir); got != tc.ignore {
			t.Errorf("shouldIgnoreDirectory(%q) = %t, want %t", tc.dir, got, tc.ignore)
		}
	}
}
