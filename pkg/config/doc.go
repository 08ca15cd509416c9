// Package config handles configuration management for dustup.
// It layers the embedded defaults, the user config file, the project config
// file (TOML or YAML), DUSTUP_* environment variables and command-line
// overrides with koanf, and hands the result to components through a Provider.
package config
