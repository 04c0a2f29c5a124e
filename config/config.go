package config

import (
	"strings"

	"github.com/Strum355/log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// InitConfig loads .env when present and binds every config key to its
// environment variable, dots replaced with underscores.
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables only")
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	initDefaults()
	viper.AutomaticEnv()

	log.WithFields(log.Fields{
		"prefix": viper.GetString("prefix"),
	}).Info("Configuration loaded")
}
