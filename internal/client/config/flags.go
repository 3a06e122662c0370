package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags are the command-line overrides. Only flags the user actually set
// are applied, so defaults registered here never mask file or env values.
type Flags struct {
	fs *pflag.FlagSet

	configFile     string
	serverURL      string
	originURL      string
	databasePath   string
	requestTimeout time.Duration
	pollInterval   time.Duration
	pollAttempts   int
	logLevel       string
	exportBucket   string
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.configFile, "config", "c", "", "path to a .json or .yaml config file")
	fs.StringVarP(&f.serverURL, "server", "s", "", "inventory server base URL")
	fs.StringVar(&f.originURL, "origin", "", "public origin used for payment return URLs")
	fs.StringVar(&f.databasePath, "db", "", "path to the local SQLite store")
	fs.DurationVar(&f.requestTimeout, "timeout", 0, "per-request timeout (0 disables)")
	fs.DurationVar(&f.pollInterval, "poll-interval", 0, "wait between payment status checks")
	fs.IntVar(&f.pollAttempts, "poll-attempts", 0, "payment status checks before giving up")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.exportBucket, "export-bucket", "", "S3 bucket for exports")
	return f
}

// ConfigFile is the path given with -c/--config.
func (f *Flags) ConfigFile() string {
	if f == nil {
		return ""
	}
	return f.configFile
}

func (f *Flags) apply(cfg *Config) {
	if f == nil || f.fs == nil {
		return
	}
	changed := f.fs.Changed

	if changed("server") {
		cfg.ServerURL = f.serverURL
	}
	if changed("origin") {
		cfg.OriginURL = f.originURL
	}
	if changed("db") {
		cfg.DatabasePath = f.databasePath
	}
	if changed("timeout") {
		cfg.RequestTimeout = f.requestTimeout
	}
	if changed("poll-interval") {
		cfg.PollInterval = f.pollInterval
	}
	if changed("poll-attempts") {
		cfg.PollAttempts = f.pollAttempts
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("export-bucket") {
		cfg.ExportBucket = f.exportBucket
	}
}
