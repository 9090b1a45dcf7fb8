// Package config loads webframe configuration from YAML files, .env files
// and environment variables.
//
// It uses Viper for file parsing and godotenv for .env files. Environment
// variables carrying the service prefix override file values, with
// underscore-separated paths mapped onto nested keys
// (e.g. WEBFRAME_CLIENT_BASE_URI -> client.base_uri).
//
// # Usage
//
//	var cfg MyConfig
//	err := config.LoadConfig("webframe", &cfg, config.WithConfigFile("webframe.yml"))
package config
