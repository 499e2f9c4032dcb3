package disposition

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var errNoCompleter = eris.New("disposition: no completer configured")

// UnknownLabelError reports a model answer outside the closed label set.
type UnknownLabelError struct {
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("disposition: unknown label %q", e.Label)
}
