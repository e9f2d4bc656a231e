package container

import (
	"strings"
	"testing"
	"time"
)

const backendDockerfile = `FROM python:3.11-slim

ENV PYTHONUNBUFFERED=1 \
    FLASK_ENV=production

WORKDIR /app

COPY requirements.txt .
RUN pip install --no-cache-dir -r requirements.txt

COPY . .

RUN useradd --create-home appuser
USER appuser

EXPOSE 5005

HEALTHCHECK --interval=30s --timeout=10s --retries=3 \
    CMD curl -f http://localhost:5005/api/health || exit 1

CMD ["gunicorn", "--bind", "0.0.0.0:5005", "--workers", "4", "app:create_app()"]
`

func TestParseDockerfile(t *testing.T) {
	spec, err := ParseDockerfile([]byte(backendDockerfile))
	if err != nil {
		t.Fatalf("ParseDockerfile failed: %v", err)
	}

	if spec.BaseImage != "python:3.11-slim" {
		t.Errorf("BaseImage = %q, want python:3.11-slim", spec.BaseImage)
	}
	if spec.WorkDir != "/app" {
		t.Errorf("WorkDir = %q, want /app", spec.WorkDir)
	}
	if spec.User != "appuser" {
		t.Errorf("User = %q, want appuser", spec.User)
	}
	if spec.Env["PYTHONUNBUFFERED"] != "1" || spec.Env["FLASK_ENV"] != "production" {
		t.Errorf("Env = %v, missing expected values", spec.Env)
	}

	if len(spec.ExposedPorts) != 1 || spec.ExposedPorts[0] != 5005 {
		t.Fatalf("ExposedPorts = %v, want [5005]", spec.ExposedPorts)
	}

	hc := spec.Healthcheck
	if hc == nil {
		t.Fatal("expected healthcheck")
	}
	if hc.Interval != 30*time.Second {
		t.Errorf("healthcheck interval = %s, want 30s", hc.Interval)
	}
	if hc.Retries != 3 {
		t.Errorf("healthcheck retries = %d, want 3", hc.Retries)
	}
	if !strings.Contains(hc.Command(), "/api/health") {
		t.Errorf("healthcheck command %q does not probe /api/health", hc.Command())
	}

	if workers := spec.GunicornWorkers(); workers != 4 {
		t.Errorf("GunicornWorkers = %d, want 4", workers)
	}
	if !spec.RunsGunicorn() {
		t.Error("expected RunsGunicorn")
	}
}

func TestParseDockerfileMultiStage(t *testing.T) {
	content := `FROM node:20 AS build
WORKDIR /build
EXPOSE 3000

FROM nginx:alpine
COPY --from=build /build/dist /usr/share/nginx/html
EXPOSE 8080
`
	spec, err := ParseDockerfile([]byte(content))
	if err != nil {
		t.Fatalf("ParseDockerfile failed: %v", err)
	}

	if spec.BaseImage != "nginx:alpine" {
		t.Errorf("BaseImage = %q, want final stage base", spec.BaseImage)
	}
	if len(spec.ExposedPorts) != 1 || spec.ExposedPorts[0] != 8080 {
		t.Errorf("ExposedPorts = %v, build-stage EXPOSE must not leak", spec.ExposedPorts)
	}
}

func TestParseDockerfilePortProtocol(t *testing.T) {
	spec, err := ParseDockerfile([]byte("FROM alpine\nEXPOSE 5005/tcp\n"))
	if err != nil {
		t.Fatalf("ParseDockerfile failed: %v", err)
	}
	if len(spec.ExposedPorts) != 1 || spec.ExposedPorts[0] != 5005 {
		t.Errorf("ExposedPorts = %v, want [5005]", spec.ExposedPorts)
	}
}

func TestParseDockerfileShellFormCmd(t *testing.T) {
	spec, err := ParseDockerfile([]byte("FROM python:3.11\nCMD gunicorn -w 4 app:app\n"))
	if err != nil {
		t.Fatalf("ParseDockerfile failed: %v", err)
	}
	if workers := spec.GunicornWorkers(); workers != 4 {
		t.Errorf("GunicornWorkers = %d, want 4 from shell-form CMD", workers)
	}
}

func TestParseDockerfileLegacyEnv(t *testing.T) {
	spec, err := ParseDockerfile([]byte("FROM alpine\nENV APP_MODE production\n"))
	if err != nil {
		t.Fatalf("ParseDockerfile failed: %v", err)
	}
	if spec.Env["APP_MODE"] != "production" {
		t.Errorf("Env = %v, want APP_MODE=production", spec.Env)
	}
}

func TestParseDockerfileNoFrom(t *testing.T) {
	if _, err := ParseDockerfile([]byte("# empty\n")); err == nil {
		t.Fatal("expected error for Dockerfile without FROM")
	}
}

func TestHealthcheckNone(t *testing.T) {
	spec, err := ParseDockerfile([]byte("FROM alpine\nHEALTHCHECK NONE\n"))
	if err != nil {
		t.Fatalf("ParseDockerfile failed: %v", err)
	}
	if spec.Healthcheck == nil || !spec.Healthcheck.Disabled() {
		t.Error("expected disabled healthcheck")
	}
}
