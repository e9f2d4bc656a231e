package types

import (
	"strconv"
	"strings"
)

var secretPatterns = []string{
	"secret", "token", "password", "passwd", "pwd",
	"api_key", "apikey", "access_key", "private_key",
	"credential", "auth", "jwt", "signing", "salt",
}

var databasePatterns = []string{
	"database_url", "db_url", "dsn", "connection_string",
	"postgres_url", "mysql_url", "mongodb_url", "redis_url",
}

var systemVars = []string{
	"path", "home", "user", "shell", "lang", "term", "pwd",
	"hostname", "oldpwd", "shlvl",
}

// Classify determines the kind of a variable and whether its value must be
// redacted in reports and exports.
func Classify(name, value string) (Kind, bool) {
	nameLower := strings.ToLower(name)

	for _, sys := range systemVars {
		if nameLower == sys {
			return KindUnknown, false
		}
	}

	for _, pattern := range databasePatterns {
		if strings.Contains(nameLower, pattern) {
			return KindDatabase, true
		}
	}

	// Connection strings carry credentials regardless of the variable name
	if looksLikeDSN(value) {
		return KindDatabase, true
	}

	for _, pattern := range secretPatterns {
		if strings.Contains(nameLower, pattern) {
			return KindSecret, true
		}
	}

	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") ||
		strings.Contains(nameLower, "url") {
		return KindURL, false
	}

	if value == "true" || value == "false" {
		return KindBoolean, false
	}

	if _, err := strconv.Atoi(value); err == nil && value != "" {
		return KindNumeric, false
	}

	return KindConfig, false
}

func looksLikeDSN(value string) bool {
	for _, scheme := range []string{"postgres://", "postgresql://", "mysql://", "mongodb://", "redis://", "amqp://"} {
		if strings.HasPrefix(value, scheme) {
			return true
		}
	}
	return false
}

// ShouldIgnore reports whether a variable is build-tool noise not worth
// reporting
func ShouldIgnore(name string) bool {
	nameLower := strings.ToLower(name)
	for _, sys := range systemVars {
		if nameLower == sys {
			return true
		}
	}
	return strings.HasPrefix(nameLower, "pip_") || strings.HasPrefix(nameLower, "python")
}
