// Package config handles configuration management for windeploy.
// It supports loading configuration from multiple sources including
// struct defaults, a TOML file and environment variables.
package config
