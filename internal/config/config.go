package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr      = ":8080"
	defaultStorageDir      = "uploads"
	defaultWorkers         = 10
	defaultBufferSize      = 8192
	defaultMaxFieldBytes   = 1 << 20
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 15

	// minBufferSize вмещает окно проверки самой длинной допустимой границы (70 символов).
	minBufferSize = 128
)

// DefaultPath — путь к YAML-конфигурации, если CONFIG_PATH не задан.
const DefaultPath = "./config.yaml"

type Config struct {
	ListenAddr         string `yaml:"listen_addr" json:"listen_addr" env:"LISTEN_ADDR"`
	StorageDir         string `yaml:"storage_dir" json:"storage_dir" env:"STORAGE_DIR"`
	Workers            int    `yaml:"workers" json:"workers" env:"WORKERS"`
	BufferSize         int    `yaml:"buffer_size" json:"buffer_size" env:"BUFFER_SIZE"`
	MaxFieldBytes      int64  `yaml:"max_field_bytes" json:"max_field_bytes" env:"MAX_FIELD_BYTES"`
	LogLevel           string `yaml:"log_level" json:"log_level" env:"LOG_LEVEL"`
	ShutdownTimeoutSec int    `yaml:"shutdown_timeout_sec" json:"shutdown_timeout_sec" env:"SHUTDOWN_TIMEOUT_SEC"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		ListenAddr:         defaultListenAddr,
		StorageDir:         defaultStorageDir,
		Workers:            defaultWorkers,
		BufferSize:         defaultBufferSize,
		MaxFieldBytes:      defaultMaxFieldBytes,
		LogLevel:           defaultLogLevel,
		ShutdownTimeoutSec: defaultShutdownTimeout,
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл, затем .env и
// переменные окружения. Пустой path означает CONFIG_PATH или ./config.yaml; отсутствие
// файла по умолчанию не ошибка, явно указанного — ошибка.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = getenv("CONFIG_PATH", DefaultPath)
		explicit = os.Getenv("CONFIG_PATH") != ""
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	// .env не перетирает уже выставленные переменные окружения.
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// ENV override
	if _, err = env.UnmarshalFromEnviron(c); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	if err = c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate проверяет значения и подставляет минимумы там, где это безопасно.
func (c *Config) Validate() error {
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	c.StorageDir = strings.TrimSpace(c.StorageDir)

	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is empty")
	}
	if c.StorageDir == "" {
		return fmt.Errorf("storage_dir is empty")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.Workers)
	}
	if c.BufferSize < minBufferSize {
		c.BufferSize = minBufferSize
	}
	if c.MaxFieldBytes <= 0 {
		c.MaxFieldBytes = defaultMaxFieldBytes
	}
	if c.ShutdownTimeoutSec <= 0 {
		c.ShutdownTimeoutSec = defaultShutdownTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}

	return nil
}

// ShutdownTimeout — время на graceful shutdown HTTP-сервера.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
