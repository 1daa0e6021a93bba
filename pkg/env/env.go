// Package env reads process environment variables with fallbacks, for the
// few knobs that must be resolved before the typed config exists.
package env

import "os"

// Get returns the value of key, or fallback when the variable is unset or
// blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
