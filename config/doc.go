// Package config loads service configuration with Viper.
//
// Values come from a YAML file, an optional .env file and the process
// environment, in increasing precedence. Environment variables carry the
// service name as prefix with underscore-separated paths, for example
// PUSHERREST_REST_BASE_URL for rest.base_url.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("pusherrest", &cfg, config.WithConfigFile(path))
package config
