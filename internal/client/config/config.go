package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/jarcover/internal/client/client"
	"github.com/dmitrijs2005/jarcover/internal/common"
)

// Storage drivers understood by the CLI.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Config holds runtime settings for the jarcover CLI.
//
// Units: all intervals are time.Duration; JarRPS is requests per second.
type Config struct {
	StorageDriver string `env:"STORAGE_DRIVER"`
	DataDir       string `env:"DATA_DIR"`
	DatabaseFile  string `env:"DATABASE_FILE"`
	LibraryDir    string `env:"LIBRARY_DIR"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	JarEndpoint    string        `env:"JAR_ENDPOINT"`
	JarTimeout     time.Duration `env:"JAR_TIMEOUT"`
	JarRPS         float64       `env:"JAR_RPS"`
	JarConcurrency int           `env:"JAR_CONCURRENCY"`

	SaveDebounce  time.Duration `env:"SAVE_DEBOUNCE"`
	RenderTimeout time.Duration `env:"RENDER_TIMEOUT"`

	Locale   string `env:"LOCALE"`
	Currency string `env:"CURRENCY"`
	LogLevel string `env:"LOG_LEVEL"`

	// PreviewSize is the edge of the square container the REPL pretends
	// the image editor is laid out in.
	PreviewSize int `env:"PREVIEW_SIZE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageDriver = StorageSQLite
	c.DataDir = ".jarcover"
	c.DatabaseFile = "jarcover.db"
	c.LibraryDir = "covers"
	c.S3Region = "us-east-1"
	c.JarEndpoint = client.DefaultJarEndpoint
	c.JarTimeout = 15 * time.Second
	c.JarRPS = 5
	c.JarConcurrency = 8
	c.SaveDebounce = time.Second
	c.RenderTimeout = 30 * time.Second
	c.Locale = "uk-UA"
	c.Currency = "UAH"
	c.LogLevel = "info"
	c.PreviewSize = 360
}

// DatabasePath returns the sqlite file location; a relative DatabaseFile is
// resolved against DataDir.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.DatabaseFile) {
		return c.DatabaseFile
	}
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// Validate reports settings the CLI cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownStorageDriver, c.StorageDriver)
	}
	if c.JarConcurrency < 1 {
		return fmt.Errorf("jar concurrency must be positive, got %d", c.JarConcurrency)
	}
	if c.PreviewSize < 1 {
		return fmt.Errorf("preview size must be positive, got %d", c.PreviewSize)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
