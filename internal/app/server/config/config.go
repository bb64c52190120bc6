package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress = ":8080"
	defaultMigrations = "migrations"
)

type Config struct {
	Env    string
	DB     DB
	Server Server
	Logger Logger
}

type DB struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type Server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type Logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()

	conf := &Config{
		Env: viper.GetString("app_env"),
		DB: DB{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: Server{RunAddress: viper.GetString("run_address")},
		Logger: Logger{LogLevel: viper.GetString("log_level")},
	}

	if conf.Env == "" {
		conf.Env = EnvLocal
	}
	if conf.Server.RunAddress == "" {
		conf.Server.RunAddress = defaultRunAddress
	}
	if conf.DB.Migrations == "" {
		conf.DB.Migrations = defaultMigrations
	}

	return conf
}
