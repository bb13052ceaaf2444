package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Auth   AuthConfig   `yaml:"auth" mapstructure:"auth"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP listener. TLS is on when both the
// certificate and the key are set.
type ServerConfig struct {
	Addr                string `yaml:"addr" mapstructure:"addr"`
	TLSCert             string `yaml:"tls_cert" mapstructure:"tls_cert"`
	TLSKey              string `yaml:"tls_key" mapstructure:"tls_key"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
}

func (s ServerConfig) TLS() bool {
	return s.TLSCert != "" && s.TLSKey != ""
}

func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSecs) * time.Second
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

type AuthConfig struct {
	TokenKey     string  `yaml:"token_key" mapstructure:"token_key"`
	RatePerSec   float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst        int     `yaml:"burst" mapstructure:"burst"`
	SecureCookie bool    `yaml:"secure_cookie" mapstructure:"secure_cookie"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads an optional .env file, then configuration from config.yaml and
// FURNACE_* environment variables. Environment wins over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FURNACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.tls_cert", "")
	v.SetDefault("server.tls_key", "")
	v.SetDefault("server.shutdown_timeout_secs", 5)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "furnace.db")
	v.SetDefault("auth.token_key", "")
	v.SetDefault("auth.rate_per_sec", 5)
	v.SetDefault("auth.burst", 10)
	v.SetDefault("auth.secure_cookie", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "serve" for the HTTP
// server; every other command only needs the store.
func (c *Config) Validate(mode string) error {
	var missing []string
	if c.Store.Driver == "" {
		missing = append(missing, "store.driver is required")
	}
	if c.Store.DatabaseURL == "" {
		missing = append(missing, "store.database_url is required")
	}
	if mode == "serve" {
		if c.Auth.TokenKey == "" {
			missing = append(missing, "auth.token_key is required")
		}
		if c.Auth.RatePerSec <= 0 || c.Auth.Burst <= 0 {
			missing = append(missing, "auth.rate_per_sec and auth.burst must be positive")
		}
		if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
			missing = append(missing, "server.tls_cert and server.tls_key must be set together")
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("config: %s", strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
