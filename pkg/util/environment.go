package util

import "os"

// Service configuration is environment driven, every variable carries the
// LEAVENOW_ prefix.

// GetEnvironmentVariable returns the named variable or fallback when it is
// unset or empty
func GetEnvironmentVariable(name string, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}

	return fallback
}
