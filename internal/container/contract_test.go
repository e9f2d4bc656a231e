package container

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, content string) *ImageSpec {
	t.Helper()
	spec, err := ParseDockerfile([]byte(content))
	if err != nil {
		t.Fatalf("ParseDockerfile failed: %v", err)
	}
	return spec
}

func TestVerifyConformingImage(t *testing.T) {
	spec, err := ParseDockerfile([]byte(backendDockerfile))
	if err != nil {
		t.Fatalf("ParseDockerfile failed: %v", err)
	}

	violations := Verify(spec, DefaultContract())
	for _, v := range violations {
		t.Errorf("unexpected violation: %s", v)
	}
}

func TestVerifyWrongPort(t *testing.T) {
	spec := mustParse(t, `FROM python:3.11
USER appuser
EXPOSE 8080
HEALTHCHECK --interval=30s --retries=3 CMD curl -f http://localhost:8080/api/health
CMD ["gunicorn", "-w", "4", "app:app"]
`)

	violations := Verify(spec, DefaultContract())
	if !hasRule(violations, "ports") {
		t.Errorf("expected ports violation, got %v", violations)
	}
}

func TestVerifyMultiplePorts(t *testing.T) {
	spec := mustParse(t, "FROM alpine\nUSER app\nEXPOSE 5005 9090\n")

	violations := Verify(spec, DefaultContract())
	if !hasRule(violations, "ports") {
		t.Errorf("expected ports violation for multiple EXPOSE, got %v", violations)
	}
}

func TestVerifyMissingHealthcheck(t *testing.T) {
	spec := mustParse(t, "FROM alpine\nUSER app\nEXPOSE 5005\n")

	violations := Verify(spec, DefaultContract())
	if !hasRule(violations, "healthcheck") {
		t.Errorf("expected healthcheck violation, got %v", violations)
	}
}

func TestVerifyDisabledHealthcheck(t *testing.T) {
	spec := mustParse(t, "FROM alpine\nUSER app\nEXPOSE 5005\nHEALTHCHECK NONE\n")

	violations := Verify(spec, DefaultContract())
	if !hasRule(violations, "healthcheck") {
		t.Errorf("expected healthcheck violation for HEALTHCHECK NONE, got %v", violations)
	}
}

func TestVerifyHealthcheckDetails(t *testing.T) {
	// Wrong path, wrong interval, wrong retries: three distinct violations
	spec := mustParse(t, `FROM alpine
USER app
EXPOSE 5005
HEALTHCHECK --interval=10s --retries=5 CMD curl -f http://localhost:5005/healthz
`)

	violations := Verify(spec, DefaultContract())
	count := 0
	for _, v := range violations {
		if v.Rule == "healthcheck" {
			count++
		}
	}
	if count != 3 {
		t.Errorf("expected 3 healthcheck violations, got %d: %v", count, violations)
	}
}

func TestVerifyWorkerCount(t *testing.T) {
	spec := mustParse(t, `FROM python:3.11
USER app
EXPOSE 5005
HEALTHCHECK --interval=30s --retries=3 CMD curl -f http://localhost:5005/api/health
CMD ["gunicorn", "--workers", "2", "app:app"]
`)

	violations := Verify(spec, DefaultContract())
	if !hasRule(violations, "workers") {
		t.Errorf("expected workers violation, got %v", violations)
	}
}

func TestVerifyRootUser(t *testing.T) {
	spec := mustParse(t, `FROM python:3.11
EXPOSE 5005
HEALTHCHECK --interval=30s --retries=3 CMD curl -f http://localhost:5005/api/health
CMD ["gunicorn", "-w", "4", "app:app"]
`)

	violations := Verify(spec, DefaultContract())
	if !hasRule(violations, "user") {
		t.Errorf("expected user violation for missing USER, got %v", violations)
	}
}

func TestViolationString(t *testing.T) {
	v := Violation{Rule: "ports", Detail: "image exposes port 8080"}
	if !strings.Contains(v.String(), "ports:") {
		t.Errorf("unexpected violation format: %s", v)
	}
}

func hasRule(violations []Violation, rule string) bool {
	for _, v := range violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}
