// Package config loads diarkit configuration from YAML files, .env files and
// the environment using Viper and godotenv.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("diarkit", &cfg, config.WithConfigFile(path))
//
// Environment variables override file values using the service prefix and
// underscore-separated paths (DIARKIT_EVALUATION_STRATEGY=hungarian).
package config
