// Package config loads the locker configuration from a TOML file.
package config
