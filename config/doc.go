// Package config loads bridge client configuration from files, .env files
// and environment variables.
//
// It uses Viper to read YAML, JSON or TOML files and godotenv for .env
// files. Environment variables carrying the service prefix override file
// values, with underscores standing in for nesting:
//
//	var cfg config.Config
//	err := config.Load("bridge", &cfg)
//
//	BRIDGE_CLIENT_BASE_URL=https://api.example.com  -> client.base_url
//	BRIDGE_CLIENT_TRANSPORT_TIMEOUT=5s             -> client.transport.timeout
package config
