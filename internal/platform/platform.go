// Package platform returns the platform name.
package platform

import "runtime"

// Name returns the platform name. The returned value is one of:
//
// 1. "linux"
//
// 2. "macos"
//
// 3. "windows"
//
// 4. "unknown"
//
// We return "macos" rather than Go's "darwin" because that is the
// name used by the configuration file and the adapter registry.
func Name() string {
	return name(runtime.GOOS)
}

// name is a utility function for implementing Name.
func name(goos string) string {
	switch goos {
	case "linux", "windows":
		return goos
	case "darwin":
		return "macos"
	}
	return "unknown"
}
