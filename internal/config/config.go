package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brizzai/cms-oauth-bridge/internal/auth/redirect"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("cms-oauth-bridge version %s, commit %s, built at %s", version, commit, date)
}

// Version returns the bare release version.
func Version() string {
	return version
}

const (
	envPrefix = "CMS_OAUTH"

	// MissingConfigMessage is returned to callers when credentials are absent.
	MissingConfigMessage = "Missing env vars. Required: GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET, and OAUTH_REDIRECT_URI (or URL)."

	redactedValue = "********"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	OAuth   OAuthConfig   `mapstructure:"oauth" yaml:"oauth"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host" yaml:"host"`
	Port              int           `mapstructure:"port" yaml:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggingConfig struct {
	Level             string `mapstructure:"level" yaml:"level"`
	Format            string `mapstructure:"format" yaml:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace" yaml:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path" yaml:"output_path,omitempty"`
	AppendToFile      bool   `mapstructure:"append_to_file" yaml:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console" yaml:"disable_console"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// OAuthConfig holds the GitHub OAuth application settings.
type OAuthConfig struct {
	ClientID       string   `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret   string   `mapstructure:"client_secret" yaml:"client_secret"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	// RedirectBase is an explicit redirect override. When empty the
	// redirect is derived from SiteURL.
	RedirectBase string        `mapstructure:"redirect_uri" yaml:"redirect_uri,omitempty"`
	SiteURL      string        `mapstructure:"site_url" yaml:"site_url,omitempty"`
	AuthorizeURL string        `mapstructure:"authorize_url" yaml:"authorize_url"`
	TokenURL     string        `mapstructure:"token_url" yaml:"token_url"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
}

// RedirectURI returns the normalized callback URI sent to GitHub both when
// building the consent URL and when exchanging the code.
func (o *OAuthConfig) RedirectURI() string {
	base := o.RedirectBase
	if base == "" {
		base = o.SiteURL
	}
	return redirect.Normalize(base)
}

// Missing lists the names of required settings that are not configured.
func (o *OAuthConfig) Missing() []string {
	var missing []string
	if o.ClientID == "" {
		missing = append(missing, "GITHUB_CLIENT_ID")
	}
	if o.ClientSecret == "" {
		missing = append(missing, "GITHUB_CLIENT_SECRET")
	}
	if o.RedirectURI() == "" {
		missing = append(missing, "OAUTH_REDIRECT_URI")
	}
	return missing
}

// IsAllowedOrigin reports whether origin exactly matches an allow-list entry.
func (o *OAuthConfig) IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range o.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	out := *c
	out.OAuth.AllowedOrigins = append([]string(nil), c.OAuth.AllowedOrigins...)
	if out.OAuth.ClientSecret != "" {
		out.OAuth.ClientSecret = redactedValue
	}
	return out
}

// ParseOrigins splits a comma-separated origin list, trimming entries and
// dropping blanks.
func ParseOrigins(values ...string) []string {
	origins := make([]string, 0, len(values))
	for _, value := range values {
		for _, origin := range strings.Split(value, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}

// InitFlags registers command line flags on fs (without parsing)
func InitFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML config file")
	fs.String("host", "", "Address to listen on")
	fs.Int("port", 0, "Port to listen on")
	fs.String("log-level", "", "Log level (debug|info|warn|error)")
	fs.String("log-format", "", "Log format (console|json)")
}

var flagKeys = map[string]string{
	"host":       "server.host",
	"port":       "server.port",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// legacyEnv maps config keys to the environment names used by the hosted
// functions this bridge replaces.
var legacyEnv = map[string]string{
	"oauth.client_id":       "GITHUB_CLIENT_ID",
	"oauth.client_secret":   "GITHUB_CLIENT_SECRET",
	"oauth.allowed_origins": "ALLOWED_ORIGINS",
	"oauth.redirect_uri":    "OAUTH_REDIRECT_URI",
	"oauth.site_url":        "URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.disable_stacktrace", false)
	v.SetDefault("logging.output_path", "")
	v.SetDefault("logging.append_to_file", true)
	v.SetDefault("logging.disable_console", false)

	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.allowed_origins", []string{})
	v.SetDefault("oauth.redirect_uri", "")
	v.SetDefault("oauth.site_url", "")
	v.SetDefault("oauth.authorize_url", "https://github.com/login/oauth/authorize")
	v.SetDefault("oauth.token_url", "https://github.com/login/oauth/access_token")
	v.SetDefault("oauth.http_timeout", 30*time.Second)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Load resolves the configuration from defaults, an optional YAML file, the
// environment and fs. fs may be nil.
//
// Missing OAuth credentials are not an error here: the auth endpoint reports
// them on every request so that preflight requests keep working.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var configFile string
	if fs != nil {
		for name, key := range flagKeys {
			if flag := fs.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
		configFile, _ = fs.GetString("config")
	}

	if err := readConfigFiles(v, configFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.OAuth.AllowedOrigins = ParseOrigins(cfg.OAuth.AllowedOrigins...)
	cfg.OAuth.SiteURL = strings.TrimRight(cfg.OAuth.SiteURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFiles(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/cms-oauth-bridge")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Merge /config/config.yaml (overrides overlapping keys)
	if _, err := os.Stat("/config/config.yaml"); err == nil {
		v.SetConfigFile("/config/config.yaml")
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("failed to merge /config/config.yaml: %w", err)
		}
	}
	return nil
}

// Validate checks values that would prevent the server from starting.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid logging.format %q, expected console or json", c.Logging.Format)
	}
	if c.OAuth.HTTPTimeout < 0 {
		return fmt.Errorf("invalid oauth.http_timeout %s", c.OAuth.HTTPTimeout)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("invalid metrics.path %q, must start with /", c.Metrics.Path)
	}
	return nil
}
