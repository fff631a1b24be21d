// Package config loads runtime configuration for the ESPM CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed with ESPM_ (see parseEnv). A double
//     underscore descends into nested fields, so ESPM_CLIENTS__ESPM__SECRET
//     sets Clients.ESPM.Secret.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   identity server base URL
//	-d string   path of the local SQLite database
//	-w int      expiry lead window (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "60s" or
// integer nanoseconds:
//
//	{
//	  "identity_server_url": "https://acessocidadao.es.gov.br/is",
//	  "default_scopes": "openid offline_access",
//	  "clients": {
//	    "espm": {"id": "espm", "secret": "..."},
//	    "espm_external_login_android": {"id": "...", "secret": "..."}
//	  },
//	  "db_path": "espm.db",
//	  "expiry_lead_window": "60s",
//	  "http_timeout": "30s"
//	}
//
// Parse failures in any source panic; main recovers nothing, so a broken
// configuration stops the program at start.
package config
