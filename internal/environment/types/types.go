package types

// Kind classifies what a configuration variable holds
type Kind int

const (
	KindUnknown Kind = iota
	KindSecret
	KindDatabase
	KindURL
	KindBoolean
	KindNumeric
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindSecret:
		return "secret"
	case KindDatabase:
		return "database"
	case KindURL:
		return "url"
	case KindBoolean:
		return "boolean"
	case KindNumeric:
		return "numeric"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Var is a configuration variable found in the source tree. Sensitive
// variables are redacted everywhere zarpar prints them.
type Var struct {
	Name      string
	Value     string
	Kind      Kind
	Sensitive bool

	// Source records where the variable came from, e.g. "dockerfile:backend/Dockerfile"
	Source string

	// Confidence ranks sources when the same variable appears in several, 0-100
	Confidence int
}
