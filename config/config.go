package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// LoadDotEnv loads the first .env file found among the usual locations.
// Variables already present in the environment are not overridden.
func LoadDotEnv(paths ...string) bool {
	if len(paths) == 0 {
		paths = []string{
			".env",                      // Current directory
			filepath.Join("..", ".env"), // Parent directory
		}
	}

	for _, envPath := range paths {
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded .env file")
			return true
		}
	}

	log.Warn().Msg("No .env file found, using existing environment variables")
	return false
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	s := GetString(config, key, "")
	if s == "" {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}

	return asBool
}

// GetList splits a comma-separated value, dropping blanks.
func GetList(config map[string]string, key string, defaultValue []string) []string {
	s := GetString(config, key, "")
	if s == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetSeconds reads an integer number of seconds as a duration.
func GetSeconds(config map[string]string, key string, defaultSeconds int) time.Duration {
	return time.Duration(GetInt(config, key, defaultSeconds)) * time.Second
}
