package composer

import (
	"errors"
	"fmt"

	"github.com/user/slideshow/pkg/pipeline"
)

var (
	// ErrNoImages is returned when Compose is called without images.
	ErrNoImages = pipeline.ErrNoImages

	// ErrNotReady is returned when inputs are staged before the engine is loaded.
	ErrNotReady = errors.New("composer: engine not ready")

	// ErrEmptyOutput is wrapped by ReadBackError when the engine produced a zero-length file.
	ErrEmptyOutput = errors.New("composer: engine produced an empty output file")

	// ErrAbandoned is returned by a Compose that was superseded by Reset.
	ErrAbandoned = errors.New("composer: compose abandoned by reset")
)

// EngineInitError reports that the engine could not be loaded.
// It is fatal to the current request only; EnsureReady may be retried.
type EngineInitError struct {
	Err error
}

func (e *EngineInitError) Error() string {
	return fmt.Sprintf("engine init: %v", e.Err)
}

func (e *EngineInitError) Unwrap() error { return e.Err }

// StagingError reports the first input that could not be written to the engine.
// Inputs written before it are left in place.
type StagingError struct {
	Name string
	Err  error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Name, e.Err)
}

func (e *StagingError) Unwrap() error { return e.Err }

// TranscodeError reports a failed engine execution: either the command could
// not run (Err set) or it finished with a non-zero exit code.
type TranscodeError struct {
	ExitCode int
	Err      error
}

func (e *TranscodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcode failed (exit code %d): %v", e.ExitCode, e.Err)
	}
	return fmt.Sprintf("transcode failed with exit code %d", e.ExitCode)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// ReadBackError reports that the engine claimed success but its output could
// not be read. This is an invariant violation, not a user error.
type ReadBackError struct {
	Name string
	Err  error
}

func (e *ReadBackError) Error() string {
	return fmt.Sprintf("read back %s: %v", e.Name, e.Err)
}

func (e *ReadBackError) Unwrap() error { return e.Err }

// BusyError is returned when Compose is called while another compose is running.
type BusyError struct{}

func (e *BusyError) Error() string {
	return "composer: a compose is already in progress"
}

// ValidationError reports a malformed compose request.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid compose request: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
