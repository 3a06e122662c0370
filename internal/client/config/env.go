package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "MITTEIE_"

var dotEnvFile = ".env"

// loadDotEnv exports the variables of a .env file without overriding the
// real environment. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

// applyEnv overlays cfg with MITTEIE_* variables that are set.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("SERVER_URL", &cfg.ServerURL)
	str("ORIGIN_URL", &cfg.OriginURL)
	str("DATABASE_PATH", &cfg.DatabasePath)
	str("UPLOAD_BASE_URL", &cfg.UploadBaseURL)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("EXPORT_BUCKET", &cfg.ExportBucket)
	str("EXPORT_REGION", &cfg.ExportRegion)
	str("EXPORT_ENDPOINT", &cfg.ExportEndpoint)
	str("EXPORT_ACCESS_KEY", &cfg.ExportAccessKey)
	str("EXPORT_SECRET_KEY", &cfg.ExportSecretKey)

	if err := dur("REQUEST_TIMEOUT", &cfg.RequestTimeout); err != nil {
		return err
	}
	if err := dur("POLL_INTERVAL", &cfg.PollInterval); err != nil {
		return err
	}
	if v, ok := lookup(EnvPrefix + "POLL_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPOLL_ATTEMPTS: %w", EnvPrefix, err)
		}
		cfg.PollAttempts = n
	}
	return nil
}
