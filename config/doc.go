// Package config handles loading and validation of the keep-alive configuration
// from YAML files and environment variables. It defines the target endpoint,
// the ping schedule with its active window, logging and the optional status server.
package config
