package config

import (
	"github.com/ilyakaznacheev/cleanenv"
)

// parseEnv overlays CHAPEL_* environment variables. Unset variables keep the
// value from the earlier sources.
func parseEnv(config *Config) error {
	return cleanenv.ReadEnv(config)
}

// EnvUsage describes the environment variables understood by the server.
func EnvUsage() (string, error) {
	return cleanenv.GetDescription(&Config{}, nil)
}
