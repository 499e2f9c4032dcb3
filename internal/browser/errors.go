package browser

import (
	"fmt"
	"time"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

// ConfigurationError is returned when the endpoint token is missing.
type ConfigurationError = model.ConfigurationError

// NavigationTimeout reports a navigation that exceeded its deadline.
type NavigationTimeout struct {
	URL   string
	After time.Duration
	Err   error
}

func (e *NavigationTimeout) Error() string {
	return fmt.Sprintf("navigation to %s timed out after %s", e.URL, e.After)
}

func (e *NavigationTimeout) Unwrap() error { return e.Err }
