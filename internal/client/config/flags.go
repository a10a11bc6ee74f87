package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/jarcover/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Only the flags listed here are kept from os.Args (see flagx.FilterArgs),
// so -c/-config and flags of other components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-s", "-d", "-l", "-b", "-j", "-locale", "-currency", "-log-level",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver (sqlite or file)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LibraryDir, "l", cfg.LibraryDir, "directory covers are exported to")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket covers are exported to")
	fs.StringVar(&cfg.JarEndpoint, "j", cfg.JarEndpoint, "donation jar API endpoint")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for amounts")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "currency code")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
