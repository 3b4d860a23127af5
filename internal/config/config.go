package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

type LocalStoreConfig struct {
	Path string `mapstructure:"path"`
}

type RemoteStoreConfig struct {
	// ConnString is the Postgres connection string. Empty means no remote
	// backend is configured: the server runs in local-only mode, which is a
	// valid operating mode rather than an error.
	ConnString string `mapstructure:"conn_string"`
}

type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	LocalStore  LocalStoreConfig  `mapstructure:"local_store"`
	RemoteStore RemoteStoreConfig `mapstructure:"remote_store"`
	Auth        AuthConfig        `mapstructure:"auth"`
}

// Load reads configuration from the given file path (e.g. "config.yaml"),
// with environment overrides under the DUITKU prefix, e.g.
// DUITKU_SERVER_ADDRESS=:9000. A missing config file is fine; defaults and
// environment variables carry the whole configuration.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("local_store.path", "data/duitku.db")
	v.SetDefault("remote_store.conn_string", "")
	v.SetDefault("auth.jwt_secret", "dev-secret")
	v.SetDefault("auth.expire_hours", 24)

	v.SetEnvPrefix("DUITKU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
