package config

import (
	"os"
	"strconv"
)

// Get returns the value of an environment variable, or fallback when unset
// or empty. godotenv has already merged any .env file into the environment
// by the time this runs.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetBool parses an environment variable as a boolean, returning fallback
// when unset or unparseable.
func GetBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
