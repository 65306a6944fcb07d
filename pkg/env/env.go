// Package env reads process environment values that are needed before the
// envconfig-backed configuration is loaded.
package env

import "os"

// Get returns the value of the given environment variable or a fallback.
// An empty value counts as unset.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
