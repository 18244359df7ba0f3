package config

import "fmt"

// ConfigurationError is returned when the configuration cannot be used.
// It is fatal at startup and never recovered from.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
