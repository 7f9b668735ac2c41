// Package version contains version information.
package version

// Version is the current version of this software.
const Version = "0.3.0"
