package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/espm/internal/flagx"
	"github.com/dmitrijs2005/espm/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-value fields that are absent from the file leave Config untouched.
type JsonConfig struct {
	IdentityServerURL         string          `json:"identity_server_url"`
	DefaultScopes             string          `json:"default_scopes"`
	Clients                   *Clients        `json:"clients"`
	EmpregabilidadeURL        string          `json:"empregabilidade_url"`
	ESPMURL                   string          `json:"espm_url"`
	DBPath                    string          `json:"db_path"`
	StoragePassphrase         string          `json:"storage_passphrase"`
	ExpiryLeadWindow          *timex.Duration `json:"expiry_lead_window"`
	BackgroundRefreshInterval *timex.Duration `json:"background_refresh_interval"`
	HTTPTimeout               *timex.Duration `json:"http_timeout"`
	LogLevel                  string          `json:"log_level"`
	LogFormat                 string          `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag it does nothing. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.IdentityServerURL, jc.IdentityServerURL)
	setString(&cfg.DefaultScopes, jc.DefaultScopes)
	setString(&cfg.EmpregabilidadeURL, jc.EmpregabilidadeURL)
	setString(&cfg.ESPMURL, jc.ESPMURL)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.StoragePassphrase, jc.StoragePassphrase)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.Clients != nil {
		cfg.Clients = *jc.Clients
	}
	if jc.ExpiryLeadWindow != nil {
		cfg.ExpiryLeadWindow = jc.ExpiryLeadWindow.Duration
	}
	if jc.BackgroundRefreshInterval != nil {
		cfg.BackgroundRefreshInterval = jc.BackgroundRefreshInterval.Duration
	}
	if jc.HTTPTimeout != nil {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
