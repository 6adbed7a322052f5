// Package config loads and validates application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the server.
type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, production
	BaseURL     string `mapstructure:"base_url"`
}

// IsProduction reports whether the server runs in production mode.
func (s ServiceConfig) IsProduction() bool {
	return s.Environment == "production"
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// GatewayConfig holds the card gateway credentials and endpoints.
type GatewayConfig struct {
	APIURL             string        `mapstructure:"api_url"`
	PublicKey          string        `mapstructure:"public_key"`
	PrivateKey         string        `mapstructure:"private_key"`
	SuccessRedirectURL string        `mapstructure:"success_redirect_url"`
	ErrorRedirectURL   string        `mapstructure:"error_redirect_url"`
	Language           string        `mapstructure:"language"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type OAuthConfig struct {
	GoogleUserInfoURL string        `mapstructure:"google_userinfo_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// SecurityConfig tunes the admission pipeline.
type SecurityConfig struct {
	// AllowedOrigins is the CORS allow-list. Empty means echo "*", which is
	// incompatible with credentialed browser requests; production deployments
	// should always set it.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	BodyLimit      string   `mapstructure:"body_limit"`

	GeneralRateLimit   int           `mapstructure:"general_rate_limit"`
	GeneralRateWindow  time.Duration `mapstructure:"general_rate_window"`
	AuthRateLimit      int           `mapstructure:"auth_rate_limit"`
	AuthRateWindow     time.Duration `mapstructure:"auth_rate_window"`
	TempBlacklistTTL   time.Duration `mapstructure:"temp_blacklist_ttl"`
	ScannerStrikes     int           `mapstructure:"scanner_strikes"`
	ScannerStrikeSpan  time.Duration `mapstructure:"scanner_strike_span"`
	ScannerBanDuration time.Duration `mapstructure:"scanner_ban_duration"`
}

const envPrefix = "BACKLIFY"

// Load reads configuration from an optional yaml file plus environment
// variables with the BACKLIFY_ prefix (dots become underscores, e.g.
// BACKLIFY_DATABASE_HOST). Missing required values are reported together.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("server")
		v.AddConfigPath("./configs")
		// A config file is optional when everything comes from the environment.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "backlify")
	v.SetDefault("service.environment", "development")
	v.SetDefault("service.base_url", "http://localhost:8080")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "require")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("jwt.access_ttl", time.Hour)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)

	v.SetDefault("gateway.language", "en")
	v.SetDefault("gateway.timeout", 10*time.Second)

	v.SetDefault("oauth.google_userinfo_url", "https://www.googleapis.com/oauth2/v2/userinfo")
	v.SetDefault("oauth.timeout", 10*time.Second)

	v.SetDefault("security.body_limit", "10M")
	v.SetDefault("security.general_rate_limit", 100)
	v.SetDefault("security.general_rate_window", 15*time.Minute)
	v.SetDefault("security.auth_rate_limit", 10)
	v.SetDefault("security.auth_rate_window", time.Hour)
	v.SetDefault("security.temp_blacklist_ttl", 30*time.Minute)
	v.SetDefault("security.scanner_strikes", 3)
	v.SetDefault("security.scanner_strike_span", 5*time.Minute)
	v.SetDefault("security.scanner_ban_duration", 24*time.Hour)
}

// validate checks that values without safe defaults are present.
func (c *Config) validate() error {
	var missing []string

	if c.Database.Host == "" {
		missing = append(missing, "database.host")
	}
	if c.Database.User == "" {
		missing = append(missing, "database.user")
	}
	if c.Database.Name == "" {
		missing = append(missing, "database.name")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "jwt.secret")
	}
	if c.Gateway.APIURL == "" {
		missing = append(missing, "gateway.api_url")
	}
	if c.Gateway.PublicKey == "" {
		missing = append(missing, "gateway.public_key")
	}
	if c.Gateway.PrivateKey == "" {
		missing = append(missing, "gateway.private_key")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
