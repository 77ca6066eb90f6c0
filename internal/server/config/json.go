package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/chapel/internal/flagx"
	"github.com/dmitrijs2005/chapel/internal/timex"
	"gopkg.in/yaml.v3"
)

// jsonConfig is the on-disk shape of the config file, JSON or YAML. Durations
// accept both "24h" strings and integer nanoseconds. Absent keys leave the
// current value untouched.
type jsonConfig struct {
	Env             *string         `json:"env" yaml:"env"`
	HTTPAddr        *string         `json:"http_addr" yaml:"http_addr"`
	DatabaseDSN     *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey       *string         `json:"secret_key" yaml:"secret_key"`
	TokenTTL        *timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	CookieSecure    *bool           `json:"cookie_secure" yaml:"cookie_secure"`
	BcryptCost      *int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	HashConcurrency *int            `json:"hash_concurrency" yaml:"hash_concurrency"`
	ReadTimeout     *timex.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    *timex.Duration `json:"write_timeout" yaml:"write_timeout"`
	S3AccessKey     *string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey     *string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket        *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region        *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PublicBaseURL *string         `json:"s3_public_base_url" yaml:"s3_public_base_url"`
}

// parseJSON overlays values from the file named by -c/-config. Files ending in
// .yaml or .yml are decoded as YAML. Without the flag nothing is loaded.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &jsonConfig{}
	if err := decodeConfigFile(path, file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&config.Env, c.Env)
	setIf(&config.HTTPAddr, c.HTTPAddr)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.CookieSecure, c.CookieSecure)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.HashConcurrency, c.HashConcurrency)
	setIf(&config.S3AccessKey, c.S3AccessKey)
	setIf(&config.S3SecretKey, c.S3SecretKey)
	setIf(&config.S3Bucket, c.S3Bucket)
	setIf(&config.S3Region, c.S3Region)
	setIf(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setIf(&config.S3PublicBaseURL, c.S3PublicBaseURL)

	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.ReadTimeout != nil {
		config.ReadTimeout = c.ReadTimeout.Duration
	}
	if c.WriteTimeout != nil {
		config.WriteTimeout = c.WriteTimeout.Duration
	}

	return nil
}

func decodeConfigFile(path string, data []byte, c *jsonConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		return json.Unmarshal(data, c)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
