package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env           string
	ServerAddress string
	EnableTLS     bool
	ConfigDir     string
	DataPath      string
	LogLevel      string
}

// MustLoad builds the client configuration from viper (config file plus
// environment), falling back to ~/.spot defaults.
func MustLoad() *Config {
	viper.AutomaticEnv()

	cfg := &Config{
		Env:           viper.GetString("app_env"),
		ServerAddress: viper.GetString("server_address"),
		EnableTLS:     viper.GetBool("enable_tls"),
		ConfigDir:     viper.GetString("config_dir"),
		DataPath:      viper.GetString("data_path"),
		LogLevel:      viper.GetString("log_level"),
	}

	if cfg.Env == "" {
		cfg.Env = EnvLocal
	}
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = "localhost:8080"
	}
	if cfg.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.ConfigDir = filepath.Join(home, ".spot")
	}
	if cfg.DataPath == "" {
		cfg.DataPath = filepath.Join(cfg.ConfigDir, "spot.db")
	}

	return cfg
}
