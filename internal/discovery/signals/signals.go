// Package signals contains the evidence collectors service discovery runs
// during its directory walk.
package signals

import "github.com/jurisia/zarpar/internal/filesystems"

// serviceName derives a service name from its build path. Walk roots like
// "." carry no useful name.
func serviceName(filesystem filesystems.FileSystem, buildPath string) string {
	name := filesystem.Base(buildPath)
	if name == "." || name == "/" || name == "" {
		return "app"
	}
	return name
}
