package config

import (
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Config holds runtime settings for the mitteie CLI.
type Config struct {
	ServerURL      string
	OriginURL      string
	DatabasePath   string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	PollAttempts   int
	UploadBaseURL  string
	LogLevel       string

	ExportBucket    string
	ExportRegion    string
	ExportEndpoint  string
	ExportAccessKey string
	ExportSecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8001"
	c.OriginURL = "http://localhost:3000"
	c.DatabasePath = defaultDatabasePath()
	c.RequestTimeout = 15 * time.Second
	c.PollInterval = 2 * time.Second
	c.PollAttempts = 5
	c.UploadBaseURL = "https://api.cloudinary.com/v1_1"
	c.LogLevel = "warn"
	c.ExportRegion = "eu-north-1"
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "mitteie.db"
	}
	return filepath.Join(dir, "mitteie", "mitteie.db")
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServerURL, validation.Required, is.RequestURL),
		validation.Field(&c.OriginURL, validation.Required, is.RequestURL),
		validation.Field(&c.DatabasePath, validation.Required),
		validation.Field(&c.RequestTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.PollInterval, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.PollAttempts, validation.Required, validation.Min(1)),
		validation.Field(&c.UploadBaseURL, validation.Required, is.RequestURL),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.ExportEndpoint, is.RequestURL),
	)
}

// LoadConfig builds a Config from defaults, the environment, an optional
// config file and finally the flags in f. Later sources take precedence
// over earlier ones. f may be nil.
func LoadConfig(f *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if path := f.ConfigFile(); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
