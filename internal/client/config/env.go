package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable named in Config's env tags.
const EnvPrefix = "JARCOVER_"

// parseEnv overlays cfg with JARCOVER_* variables. Unset variables leave the
// current value alone; malformed values panic like the other loaders.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
