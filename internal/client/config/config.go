package config

import "time"

// Client profile names. The identity server knows the app under two client
// registrations; a refresh must be performed with the one that issued the
// stored token.
const (
	ProfileESPM                 = "espm"
	ProfileExternalLoginAndroid = "espm_external_login_android"
)

// ClientProfile is an OAuth2 client registration on the identity server.
type ClientProfile struct {
	ID     string `koanf:"id" json:"id"`
	Secret string `koanf:"secret" json:"secret"`
}

// Clients holds the two known client profiles.
type Clients struct {
	ESPM                 ClientProfile `koanf:"espm" json:"espm"`
	ExternalLoginAndroid ClientProfile `koanf:"espm_external_login_android" json:"espm_external_login_android"`
}

// ProfileFor names the profile used to refresh a token issued to id. Any id
// other than the ESPM profile's falls back to the external-login profile.
func (c Clients) ProfileFor(id string) string {
	if id != "" && id == c.ESPM.ID {
		return ProfileESPM
	}
	return ProfileExternalLoginAndroid
}

// ForClientID returns the credentials of the profile ProfileFor names.
func (c Clients) ForClientID(id string) ClientProfile {
	if c.ProfileFor(id) == ProfileESPM {
		return c.ESPM
	}
	return c.ExternalLoginAndroid
}

// Config holds runtime settings for the ESPM CLI.
type Config struct {
	IdentityServerURL string  `koanf:"identity_server_url"`
	DefaultScopes     string  `koanf:"default_scopes"`
	Clients           Clients `koanf:"clients"`

	EmpregabilidadeURL string `koanf:"empregabilidade_url"`
	ESPMURL            string `koanf:"espm_url"`

	DBPath            string `koanf:"db_path"`
	StoragePassphrase string `koanf:"storage_passphrase"`

	// ExpiryLeadWindow is how long before expiry a token counts as
	// expiring soon and gets refreshed in the background.
	ExpiryLeadWindow time.Duration `koanf:"expiry_lead_window"`
	// BackgroundRefreshInterval is the minimum gap between two background
	// refresh attempts.
	BackgroundRefreshInterval time.Duration `koanf:"background_refresh_interval"`
	HTTPTimeout               time.Duration `koanf:"http_timeout"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.IdentityServerURL = "https://acessocidadao.es.gov.br/is"
	c.DefaultScopes = "openid offline_access profile email cpf nome apelido api-espm"
	c.Clients = Clients{
		ESPM:                 ClientProfile{ID: "espm"},
		ExternalLoginAndroid: ClientProfile{ID: "espm.external.login.android"},
	}
	c.EmpregabilidadeURL = "https://api.es.gov.br/empregabilidade"
	c.ESPMURL = "https://api.es.gov.br/espm"
	c.DBPath = "espm.db"
	c.ExpiryLeadWindow = 60 * time.Second
	c.BackgroundRefreshInterval = 10 * time.Second
	c.HTTPTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
