package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable the CLI reads.
const EnvPrefix = "ESPM_"

// envKey maps ESPM_CLIENTS__ESPM__SECRET to clients.espm.secret. Single
// underscores are kept because field names contain them.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// parseEnv overlays Config with ESPM_* environment variables. Variables that
// are not set leave the current value in place. Errors panic.
func parseEnv(cfg *Config) {
	if err := loadEnv(cfg); err != nil {
		panic(err)
	}
}

func loadEnv(cfg *Config) error {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return nil
}
