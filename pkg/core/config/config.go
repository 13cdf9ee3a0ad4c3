// Package config loads service settings from a YAML file with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds every tunable of the API service and CLI.
type Config struct {
	Server struct {
		ListenAddr       string  `yaml:"listen_addr"`
		RateLimit        float64 `yaml:"rate_limit"`
		RateBurst        int     `yaml:"rate_burst"`
		BatchConcurrency int     `yaml:"batch_concurrency"`
		BatchMaxItems    int     `yaml:"batch_max_items"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Storage struct {
		DatabaseURL string `yaml:"database_url"`
		CacheDir    string `yaml:"cache_dir"`
	} `yaml:"storage"`

	Analysis struct {
		RulesDir       string `yaml:"rules_dir"`
		BenchmarksFile string `yaml:"benchmarks_file"`
	} `yaml:"analysis"`
}

// Default returns the built-in settings.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path (optional; empty or missing file means defaults), then a
// .env file if present, then the FA_* and DATABASE_URL environment variables.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("FA_LISTEN_ADDR", &c.Server.ListenAddr)
	setString("DATABASE_URL", &c.Storage.DatabaseURL)
	setString("FA_LOG_LEVEL", &c.Log.Level)
	setString("FA_LOG_FILE", &c.Log.File)
	setString("FA_CACHE_DIR", &c.Storage.CacheDir)
	setString("FA_RULES_DIR", &c.Analysis.RulesDir)
	setString("FA_BENCHMARKS_FILE", &c.Analysis.BenchmarksFile)

	if v := os.Getenv("FA_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FA_RATE_LIMIT: %w", err)
		}
		c.Server.RateLimit = f
	}
	if v := os.Getenv("FA_BATCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FA_BATCH_CONCURRENCY: %w", err)
		}
		c.Server.BatchConcurrency = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.RateLimit <= 0 {
		c.Server.RateLimit = 20
	}
	if c.Server.RateBurst <= 0 {
		c.Server.RateBurst = 40
	}
	if c.Server.BatchConcurrency <= 0 {
		c.Server.BatchConcurrency = 4
	}
	if c.Server.BatchMaxItems <= 0 {
		c.Server.BatchMaxItems = 50
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.CacheDir == "" {
		c.Storage.CacheDir = "data/reports"
	}
}
