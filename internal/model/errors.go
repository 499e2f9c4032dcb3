package model

import "fmt"

// ConfigurationError reports a missing or invalid setting. It is fatal for
// the call that hit it and is never retried.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not configured", e.Setting)
}
