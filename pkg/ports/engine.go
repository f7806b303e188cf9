// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"time"
)

// Engine abstracts a stateful media transcoding engine with a private
// virtual filesystem. The engine is a single-writer resource: callers must
// not issue concurrent operations against the same instance.
type Engine interface {
	// Load prepares the engine for use. Calling Load on a loaded engine is a no-op.
	Load(ctx context.Context) error

	// WriteFile stores data in the engine's virtual filesystem under name.
	WriteFile(ctx context.Context, name string, data []byte) error

	// ReadFile returns the contents of name from the virtual filesystem.
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// DeleteFile removes name from the virtual filesystem.
	// Deleting a file that does not exist is not an error.
	DeleteFile(ctx context.Context, name string) error

	// Exec runs one transcode command. The returned exit code is non-zero when
	// the engine reports failure; err is set when the command could not run.
	Exec(ctx context.Context, args []string) (exitCode int, err error)

	// OnProgress registers a handler for progress events emitted during Exec.
	// The returned function removes the handler.
	OnProgress(handler ProgressHandler) (unsubscribe func())

	// Terminate releases the engine and its virtual filesystem.
	Terminate() error
}

// ProgressHandler receives engine progress events.
type ProgressHandler func(event ProgressEvent)

// ProgressEvent reports how far the current Exec has advanced.
type ProgressEvent struct {
	// Ratio is the completed fraction in [0,1], or -1 when the engine
	// cannot tell (only Elapsed is meaningful then).
	Ratio float64

	// Elapsed is the output media time produced so far.
	Elapsed time.Duration
}

// RatioUnknown marks a ProgressEvent without a completion ratio.
const RatioUnknown = -1.0
