package env

import (
	"os"
	"strings"
)

// Get returns the value of the given environment variable, or the fallback
// when it is unset or blank.
func Get(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}
