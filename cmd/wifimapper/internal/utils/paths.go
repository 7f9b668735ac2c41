// Package utils contains filesystem layout helpers for the wifimapper home.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomePath returns the default wifimapper home directory.
func HomePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".wifimapper"), nil
}

// RequiredDirs returns the required directories given the home directory.
func RequiredDirs(home string) []string {
	requiredDirs := []string{}
	requiredSubdirs := []string{"db"}
	for _, d := range requiredSubdirs {
		requiredDirs = append(requiredDirs, filepath.Join(home, d))
	}
	return requiredDirs
}

// ConfigPath returns the config file path for the given home directory.
func ConfigPath(home string) string {
	return filepath.Join(home, "config.json")
}

// DBDir returns the path of the named database for the given home directory.
func DBDir(home string, name string) string {
	return filepath.Join(home, "db", fmt.Sprintf("%s.sqlite3", name))
}
