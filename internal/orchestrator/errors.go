package orchestrator

import (
	"errors"
	"fmt"
)

// ErrNoBackend is returned when no registered backend supports a task's
// type. This is a configuration error: it fails fast and is never retried.
var ErrNoBackend = errors.New("no backend supports the requested task type")

// errAllExhausted is the terminal error message when every fallback
// candidate failed.
const errAllExhausted = "all backends exhausted"

func errUnknownBackend(id string) error {
	return fmt.Errorf("backend %q is not registered with the load tracker", id)
}
