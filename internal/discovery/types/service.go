package types

// Service is a deployable unit discovered in the source tree. The JurisIA
// layout is a static frontend published to a CDN and a containerized
// backend, but discovery reports whatever the tree declares.
type Service struct {
	Name  string
	Role  Role
	Build Build

	// BuildPath is the directory the service builds from
	BuildPath string

	// Image is set when the service runs a pre-built image
	Image string

	// PublishDir is the directory published to the CDN (frontend services)
	PublishDir string

	// Port is the declared listen port, 0 when unknown
	Port int

	Configs []ConfigRef
}

type Role int

const (
	RoleUnknown  Role = iota
	RoleFrontend      // static bundle served from a CDN
	RoleBackend       // long-running HTTP service
)

func (r Role) String() string {
	switch r {
	case RoleFrontend:
		return "frontend"
	case RoleBackend:
		return "backend"
	default:
		return "unknown"
	}
}

type Build int

const (
	BuildFromSource Build = iota // build from Dockerfile/source
	BuildFromImage               // use pre-built image
)

func (b Build) String() string {
	switch b {
	case BuildFromImage:
		return "image"
	default:
		return "source"
	}
}

// ConfigRef points at the file a signal derived its evidence from
type ConfigRef struct {
	Type string // "netlify", "dockerfile", "docker-compose", "package"
	Path string
}

// Warning flags a deployment config the Netlify+container pipeline will not
// act on, so a deploy would silently ignore it.
type Warning struct {
	Platform string
	Path     string
	Detail   string
}
