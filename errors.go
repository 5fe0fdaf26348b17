package vmlm

import "fmt"

// ConfigError reports a misuse of Init or NewDefault: a bad dimension, a
// tolerance outside its required range, or an inconsistent pair of
// tolerances. It is returned, not panicked, because Init is the one entry
// point a caller is expected to error-check before entering the Step loop.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("vmlm: %s: %s", e.Field, e.Message)
}

func configErr(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}
