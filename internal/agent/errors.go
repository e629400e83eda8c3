package agent

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a run exceeds its configured deadline.
// The browser session is still released before the error surfaces.
var ErrTimeout = errors.New("run exceeded its time limit")

// ExternalAgentError reports a failure inside the external agent service,
// as opposed to a local configuration or browser problem.
type ExternalAgentError struct {
	Provider string
	Err      error
}

func (e *ExternalAgentError) Error() string {
	return fmt.Sprintf("external agent %s failed: %v", e.Provider, e.Err)
}

func (e *ExternalAgentError) Unwrap() error {
	return e.Err
}
