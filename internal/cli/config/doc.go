// Package config loads nskv-cli defaults from ~/.nskv/cli.yaml and
// NSKV_CLI_* environment variables. Command-line flags override both.
package config
