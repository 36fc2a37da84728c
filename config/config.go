// Package config loads service configuration from an optional YAML
// file with environment-variable overrides. A .env file in the working
// directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Importer ImporterConfig `yaml:"importer"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
}

type LoggingConfig struct {
	Level    string   `yaml:"level"`
	Encoding string   `yaml:"encoding"`
	Outputs  []string `yaml:"outputs"`
}

type ImporterConfig struct {
	// TempDir holds spilled content caches; empty selects the OS
	// temp directory.
	TempDir string `yaml:"tempDir"`
	// MaxMemory bounds in-memory content caching per document, in
	// bytes. 0 selects the built-in default.
	MaxMemory int64 `yaml:"maxMemory"`
	// ErrorDir receives parse-error artifacts; empty disables dumps.
	ErrorDir string `yaml:"errorDir"`
	// MaxNestedDepth bounds recursion into embedded documents.
	MaxNestedDepth int `yaml:"maxNestedDepth"`

	OCR OCRConfig `yaml:"ocr"`
}

type OCRConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Languages []string `yaml:"languages"`
}

type StorageConfig struct {
	// Backend selects "fs" or "minio".
	Backend string `yaml:"backend"`

	// Dir is the output root for the fs backend.
	Dir string `yaml:"dir"`

	Minio MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxUploadBytes bounds multipart uploads; 0 means unlimited.
	MaxUploadBytes int64 `yaml:"maxUploadBytes"`
}

var loadEnvOnce sync.Once

// Load reads the YAML file at path (skipped when path is empty or the
// file does not exist) and applies environment overrides on top.
func Load(path string) (*Config, error) {
	loadEnvOnce.Do(func() {
		// Missing .env is fine; real environment still applies.
		_ = godotenv.Load()
	})

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
			Outputs:  []string{"stdout"},
		},
		Storage: StorageConfig{
			Backend: "fs",
			Dir:     "out",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Logging.Level, "INGEST_LOG_LEVEL")
	setString(&cfg.Logging.Encoding, "INGEST_LOG_ENCODING")

	setString(&cfg.Importer.TempDir, "INGEST_TEMP_DIR")
	setInt64(&cfg.Importer.MaxMemory, "INGEST_MAX_MEMORY")
	setString(&cfg.Importer.ErrorDir, "INGEST_ERROR_DIR")
	setInt(&cfg.Importer.MaxNestedDepth, "INGEST_MAX_NESTED_DEPTH")
	setBool(&cfg.Importer.OCR.Enabled, "INGEST_OCR_ENABLED")

	setString(&cfg.Storage.Backend, "INGEST_STORAGE_BACKEND")
	setString(&cfg.Storage.Dir, "INGEST_STORAGE_DIR")
	setString(&cfg.Storage.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&cfg.Storage.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.Storage.Minio.SecretKey, "MINIO_SECRET_KEY")
	setBool(&cfg.Storage.Minio.UseSSL, "MINIO_USE_SSL")
	setString(&cfg.Storage.Minio.Region, "MINIO_REGION")
	setString(&cfg.Storage.Minio.Bucket, "MINIO_BUCKET_NAME")

	setString(&cfg.Server.Addr, "INGEST_SERVER_ADDR")
	setInt64(&cfg.Server.MaxUploadBytes, "INGEST_MAX_UPLOAD_BYTES")
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "fs", "minio":
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.Storage.Backend)
	}
	if c.Storage.Backend == "minio" && c.Storage.Minio.Endpoint == "" {
		return fmt.Errorf("minio backend requires MINIO_ENDPOINT")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
