// Package config loads race-delta settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// BuildAPIBase is injected at build time:
//
//	go build -ldflags "-X race-delta/config.BuildAPIBase=https://api.example.com/api"
var BuildAPIBase string

// FallbackCandidates are tried after the runtime and build-time values.
var FallbackCandidates = []string{
	"http://localhost:3000/api",
	"http://127.0.0.1:3000/api",
	"http://localhost:8000/api",
	"http://127.0.0.1:8000/api",
	"https://api.openf1.org",
}

type Config struct {
	Addr string `env:"RACEDELTA_ADDR" envDefault:":8080"`

	// Runtime-injected backend origin, highest priority.
	APIBase       string        `env:"RACEDELTA_API_BASE"`
	APICandidates []string      `env:"RACEDELTA_API_CANDIDATES" envSeparator:","`
	ProbeTimeout  time.Duration `env:"RACEDELTA_PROBE_TIMEOUT" envDefault:"700ms"`
	HealthPath    string        `env:"RACEDELTA_HEALTH_PATH" envDefault:"/sessions"`
	// PersistAPIBase=false runs without persistent storage: the resolver then
	// uses the first candidate and never probes.
	PersistAPIBase bool `env:"RACEDELTA_PERSIST_API_BASE" envDefault:"true"`

	DBPath          string `env:"RACEDELTA_DB_PATH" envDefault:"./race_delta.db"`
	VolumeMountPath string `env:"RAILWAY_VOLUME_MOUNT_PATH"`

	RequestTimeout  time.Duration `env:"RACEDELTA_REQUEST_TIMEOUT" envDefault:"10s"`
	DriversCacheTTL time.Duration `env:"RACEDELTA_DRIVERS_CACHE_TTL" envDefault:"10m"`
	LiveRefresh     time.Duration `env:"RACEDELTA_LIVE_REFRESH" envDefault:"3s"`

	LogLevel string `env:"RACEDELTA_LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, then parses the environment. Variables
// already set in the environment win over the file.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Candidates returns backend origins in priority order: runtime value,
// build-time value, then the configured list or the built-in fallbacks.
// Duplicates are left to the resolver.
func (c Config) Candidates() []string {
	var out []string
	if c.APIBase != "" {
		out = append(out, c.APIBase)
	}
	if BuildAPIBase != "" {
		out = append(out, BuildAPIBase)
	}
	if len(c.APICandidates) > 0 {
		return append(out, c.APICandidates...)
	}
	return append(out, FallbackCandidates...)
}

// DatabasePath prefers a mounted volume when one is present.
func (c Config) DatabasePath() string {
	if c.VolumeMountPath != "" {
		return filepath.Join(c.VolumeMountPath, "race_delta.db")
	}
	return c.DBPath
}
