package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrCancelled marks a task that ended because it was cancelled.
var ErrCancelled = errors.New("transport: task cancelled")

// Result is the outcome of one task. Response carries the metadata of a
// received response; its Body has already been read into Body.
type Result struct {
	Body     []byte
	Response *http.Response
	Err      error
}

// Task is one prepared request.
type Task interface {
	// ID returns an identifier unique among the transport's tasks.
	ID() uint64
	// Start sends the request. Calling Start more than once has no effect.
	Start()
	// Cancel aborts the task. It is a no-op once the result was delivered.
	Cancel()
}

// Transport prepares tasks for finished requests.
type Transport interface {
	// Prepare binds req to a new task. done is invoked exactly once and
	// never on the goroutine calling Prepare, Start or Cancel.
	Prepare(req *http.Request, done func(Result)) Task
}

// Cancelled wraps cause so that errors.Is(err, ErrCancelled) holds.
func Cancelled(cause error) error {
	if cause == nil || errors.Is(cause, ErrCancelled) {
		return ErrCancelled
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// IsCancelled reports whether err is a transport cancellation, including a
// cancelled request context.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}
