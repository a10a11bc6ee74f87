// Package config loads runtime configuration for the jarcover CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected with -c/-config or
//     $JARCOVER_CONFIG.
//  3. Environment variables prefixed with JARCOVER_ (see parseEnv).
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-s string   storage driver: sqlite or file
//	-d string   data directory
//	-l string   directory covers are exported to
//	-b string   S3 bucket covers are exported to (overrides -l)
//	-j string   donation jar API endpoint
//	-locale     locale used for amounts, e.g. uk-UA
//	-currency   ISO 4217 currency code
//	-log-level  debug, info, warn or error
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "storage_driver": "sqlite",
//	  "data_dir": "~/.jarcover",
//	  "jar_timeout": "15s",
//	  "save_debounce": "1s",
//	  "currency": "UAH"
//	}
package config
