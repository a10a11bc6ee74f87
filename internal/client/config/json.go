package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/jarcover/internal/flagx"
	"github.com/dmitrijs2005/jarcover/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "15s" or as integer nanoseconds.
type JsonConfig struct {
	StorageDriver  string         `json:"storage_driver"`
	DataDir        string         `json:"data_dir"`
	DatabaseFile   string         `json:"database_file"`
	LibraryDir     string         `json:"library_dir"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3Endpoint     string         `json:"s3_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	JarEndpoint    string         `json:"jar_endpoint"`
	JarTimeout     timex.Duration `json:"jar_timeout"`
	JarRPS         float64        `json:"jar_rps"`
	JarConcurrency int            `json:"jar_concurrency"`
	SaveDebounce   timex.Duration `json:"save_debounce"`
	RenderTimeout  timex.Duration `json:"render_timeout"`
	Locale         string         `json:"locale"`
	Currency       string         `json:"currency"`
	LogLevel       string         `json:"log_level"`
	PreviewSize    int            `json:"preview_size"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The path comes from -c/-config or $JARCOVER_CONFIG; without one nothing
// is loaded. Keys absent from the file keep their current value. Panics on
// read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.DatabaseFile, jc.DatabaseFile)
	setString(&cfg.LibraryDir, jc.LibraryDir)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.JarEndpoint, jc.JarEndpoint)
	setString(&cfg.Locale, jc.Locale)
	setString(&cfg.Currency, jc.Currency)
	setString(&cfg.LogLevel, jc.LogLevel)

	setDuration(&cfg.JarTimeout, jc.JarTimeout)
	setDuration(&cfg.SaveDebounce, jc.SaveDebounce)
	setDuration(&cfg.RenderTimeout, jc.RenderTimeout)

	if jc.JarRPS > 0 {
		cfg.JarRPS = jc.JarRPS
	}
	if jc.JarConcurrency > 0 {
		cfg.JarConcurrency = jc.JarConcurrency
	}
	if jc.PreviewSize > 0 {
		cfg.PreviewSize = jc.PreviewSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}
