// Package config loads runtime configuration for the mitteie CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with MITTEIE_; a .env file in the
//     working directory is loaded first and never overrides real variables.
//  3. Optional config file selected with -c/--config. Files ending in
//     .yaml or .yml are YAML, anything else is JSON with comments allowed.
//  4. Command-line flags, which override everything above.
//
// # File schema
//
// Durations accept strings like "2s" or integer nanoseconds:
//
//	{
//	  // local API during development
//	  "server_url": "http://localhost:8001",
//	  "poll_interval": "2s",
//	  "poll_attempts": 5,
//	  "export": {"bucket": "mitteie-exports", "endpoint": "http://localhost:9000"}
//	}
//
// Export credentials can also come from the default AWS chain when
// MITTEIE_EXPORT_ACCESS_KEY is not set.
package config
