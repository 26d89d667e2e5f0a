package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config describes the application level configuration loaded from json.
type Config struct {
	Root   string       `json:"root"`
	Log    LogConfig    `json:"log"`
	MetaDB MetaDBConfig `json:"metadb"`
	S3     S3Config     `json:"s3"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	File    string `json:"file"`
	Level   string `json:"level"`
	Console bool   `json:"console"`
}

// MetaDBConfig selects the metadata store backend.
type MetaDBConfig struct {
	Driver string `json:"driver"` // sqlite or postgres
	DSN    string `json:"dsn"`
}

// S3Config holds the options for mirroring persisted state to an object store.
type S3Config struct {
	Host            string `json:"host"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token"`
	ForcePathStyle  bool   `json:"force_path_style"`
	Prefix          string `json:"prefix"`
}

// LoadFirst tries to load configuration from the given paths, returning the
// first successfully decoded configuration.
func LoadFirst(paths ...string) (*Config, error) {
	var lastErr error
	for _, path := range paths {
		if path == "" {
			continue
		}
		cfg, err := Load(path)
		if errors.Is(err, os.ErrNotExist) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("config not found in paths: %v", paths)
	}
	return nil, lastErr
}

// Load reads configuration from a single json file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.MetaDB.Driver == "" {
		c.MetaDB.Driver = "sqlite"
	}
	if c.MetaDB.Driver == "sqlite" && c.MetaDB.DSN == "" && c.Root != "" {
		c.MetaDB.DSN = filepath.Join(c.Root, "retrolist.db")
	}
}

// Validate performs basic validation of the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.New("config.root must be set")
	}
	switch c.MetaDB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config.metadb.driver %q not supported", c.MetaDB.Driver)
	}
	if c.MetaDB.Driver == "postgres" && c.MetaDB.DSN == "" {
		return errors.New("config.metadb.dsn must be set for postgres")
	}
	return nil
}

// ValidateS3 checks the object store settings; only the mirror commands need them.
func (c *Config) ValidateS3() error {
	if c.S3.Host == "" {
		return errors.New("config.s3.host must be set")
	}
	if c.S3.Bucket == "" {
		return errors.New("config.s3.bucket must be set")
	}
	return nil
}
