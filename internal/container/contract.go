package container

import (
	"fmt"
	"strings"
	"time"
)

// Contract is the container configuration the deploy pipeline requires of
// the backend image before it ships.
type Contract struct {
	Port           int
	HealthPath     string
	HealthInterval time.Duration
	HealthRetries  int
	Workers        int
	ForbidRoot     bool
}

// DefaultContract returns the backend contract: gunicorn on port 5005,
// probed at /api/health every 30 seconds with 3 retries, 4 workers, and no
// root user.
func DefaultContract() Contract {
	return Contract{
		Port:           5005,
		HealthPath:     "/api/health",
		HealthInterval: 30 * time.Second,
		HealthRetries:  3,
		Workers:        4,
		ForbidRoot:     true,
	}
}

// Violation is a contract check the image failed
type Violation struct {
	Rule   string `json:"rule"`
	Detail string `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Detail)
}

// Verify checks the declared image configuration against the contract and
// returns every violation found. An empty slice means the image conforms.
func Verify(spec *ImageSpec, c Contract) []Violation {
	var violations []Violation

	violations = append(violations, verifyPorts(spec, c)...)
	violations = append(violations, verifyHealthcheck(spec, c)...)
	violations = append(violations, verifyWorkers(spec, c)...)

	if c.ForbidRoot {
		if spec.User == "" || spec.User == "root" || spec.User == "0" {
			violations = append(violations, Violation{
				Rule:   "user",
				Detail: "image must declare a non-root USER",
			})
		}
	}

	return violations
}

func verifyPorts(spec *ImageSpec, c Contract) []Violation {
	if len(spec.ExposedPorts) != 1 {
		return []Violation{{
			Rule:   "ports",
			Detail: fmt.Sprintf("image must expose exactly one port, found %d", len(spec.ExposedPorts)),
		}}
	}

	if spec.ExposedPorts[0] != c.Port {
		return []Violation{{
			Rule:   "ports",
			Detail: fmt.Sprintf("image exposes port %d, contract requires %d", spec.ExposedPorts[0], c.Port),
		}}
	}

	return nil
}

func verifyHealthcheck(spec *ImageSpec, c Contract) []Violation {
	hc := spec.Healthcheck
	if hc == nil || hc.Disabled() {
		return []Violation{{
			Rule:   "healthcheck",
			Detail: fmt.Sprintf("image must declare a HEALTHCHECK probing %s", c.HealthPath),
		}}
	}

	var violations []Violation

	if !strings.Contains(hc.Command(), c.HealthPath) {
		violations = append(violations, Violation{
			Rule:   "healthcheck",
			Detail: fmt.Sprintf("healthcheck %q does not probe %s", hc.Command(), c.HealthPath),
		})
	}

	if hc.Interval != c.HealthInterval {
		violations = append(violations, Violation{
			Rule:   "healthcheck",
			Detail: fmt.Sprintf("healthcheck interval is %s, contract requires %s", hc.Interval, c.HealthInterval),
		})
	}

	if hc.Retries != c.HealthRetries {
		violations = append(violations, Violation{
			Rule:   "healthcheck",
			Detail: fmt.Sprintf("healthcheck retries is %d, contract requires %d", hc.Retries, c.HealthRetries),
		})
	}

	return violations
}

func verifyWorkers(spec *ImageSpec, c Contract) []Violation {
	if c.Workers == 0 || !spec.RunsGunicorn() {
		return nil
	}

	workers := spec.GunicornWorkers()
	if workers != c.Workers {
		return []Violation{{
			Rule:   "workers",
			Detail: fmt.Sprintf("gunicorn declares %d workers, contract requires %d", workers, c.Workers),
		}}
	}

	return nil
}
