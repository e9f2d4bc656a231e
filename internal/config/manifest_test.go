package config

import (
	"strings"
	"testing"
	"time"

	"github.com/jurisia/zarpar/internal/filesystems"
)

func TestLoadDefaults(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("README.md", []byte("# JurisIA"))

	manifest, err := Load(mfs, ".")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if manifest.Backend.Port != 5005 {
		t.Errorf("default port = %d, want 5005", manifest.Backend.Port)
	}
	if manifest.Backend.HealthPath != "/api/health" {
		t.Errorf("default health path = %q, want /api/health", manifest.Backend.HealthPath)
	}
	if manifest.Backend.HealthInterval.Std() != 30*time.Second {
		t.Errorf("default health interval = %s, want 30s", manifest.Backend.HealthInterval.Std())
	}
	if manifest.Backend.Workers != 4 {
		t.Errorf("default workers = %d, want 4", manifest.Backend.Workers)
	}
}

func TestLoadManifest(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("zarpar.yaml", []byte(`project: JurisIA
version: 1.4.2
frontend:
  url: https://jurisia.netlify.app
  publish_dir: frontend/dist
backend:
  url: https://api.jurisia.com.br
  port: 5005
  health_path: /api/health
  health_interval: 30s
  health_retries: 3
  workers: 4
`))

	manifest, err := Load(mfs, ".")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if manifest.Version != "1.4.2" {
		t.Errorf("version = %q, want 1.4.2", manifest.Version)
	}
	if manifest.Frontend.PublishDir != "frontend/dist" {
		t.Errorf("publish_dir = %q", manifest.Frontend.PublishDir)
	}

	contract := manifest.Contract()
	if contract.Port != 5005 || contract.HealthRetries != 3 || contract.HealthInterval != 30*time.Second {
		t.Errorf("contract = %+v", contract)
	}
}

func TestLoadPartialManifestKeepsDefaults(t *testing.T) {
	mfs := filesystems.NewMemoryFS()
	mfs.AddFile("zarpar.yaml", []byte("version: 2.0.0\n"))

	manifest, err := Load(mfs, ".")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if manifest.Version != "2.0.0" {
		t.Errorf("version = %q, want 2.0.0", manifest.Version)
	}
	if manifest.Backend.Port != 5005 {
		t.Errorf("port = %d, defaults must survive partial manifests", manifest.Backend.Port)
	}
}

func TestLoadInvalidManifest(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"port out of range", "backend:\n  port: 99999\n", "out of range"},
		{"relative health path", "backend:\n  health_path: api/health\n", "must start with /"},
		{"bad retries", "backend:\n  health_retries: 0\n", "at least 1"},
		{"bad url", "frontend:\n  url: not-a-url\n", "absolute URL"},
		{"bad duration", "backend:\n  health_interval: soon\n", "invalid duration"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mfs := filesystems.NewMemoryFS()
			mfs.AddFile("zarpar.yaml", []byte(tc.content))

			_, err := Load(mfs, ".")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}
