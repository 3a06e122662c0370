package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/mitteie/internal/timex"
)

// FileConfig is the DTO of a config file. Durations accept strings like
// "2s" or integer nanoseconds. Only keys present in the file are applied.
type FileConfig struct {
	ServerURL      *string         `json:"server_url" yaml:"server_url"`
	OriginURL      *string         `json:"origin_url" yaml:"origin_url"`
	DatabasePath   *string         `json:"database_path" yaml:"database_path"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	PollInterval   *timex.Duration `json:"poll_interval" yaml:"poll_interval"`
	PollAttempts   *int            `json:"poll_attempts" yaml:"poll_attempts"`
	UploadBaseURL  *string         `json:"upload_base_url" yaml:"upload_base_url"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	Export         *struct {
		Bucket    *string `json:"bucket" yaml:"bucket"`
		Region    *string `json:"region" yaml:"region"`
		Endpoint  *string `json:"endpoint" yaml:"endpoint"`
		AccessKey *string `json:"access_key" yaml:"access_key"`
		SecretKey *string `json:"secret_key" yaml:"secret_key"`
	} `json:"export" yaml:"export"`
}

// parseFile overlays cfg with the file at path. JSON files may carry
// comments and trailing commas.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".json", "":
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	default:
		return fmt.Errorf("unsupported config file %q", path)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setStr(&cfg.ServerURL, fc.ServerURL)
	setStr(&cfg.OriginURL, fc.OriginURL)
	setStr(&cfg.DatabasePath, fc.DatabasePath)
	setDur(&cfg.RequestTimeout, fc.RequestTimeout)
	setDur(&cfg.PollInterval, fc.PollInterval)
	if fc.PollAttempts != nil {
		cfg.PollAttempts = *fc.PollAttempts
	}
	setStr(&cfg.UploadBaseURL, fc.UploadBaseURL)
	setStr(&cfg.LogLevel, fc.LogLevel)

	if e := fc.Export; e != nil {
		setStr(&cfg.ExportBucket, e.Bucket)
		setStr(&cfg.ExportRegion, e.Region)
		setStr(&cfg.ExportEndpoint, e.Endpoint)
		setStr(&cfg.ExportAccessKey, e.AccessKey)
		setStr(&cfg.ExportSecretKey, e.SecretKey)
	}
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDur(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
