package ffmpegengine

import "errors"

var (
	// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
	ErrFFmpegNotFound = errors.New("ffmpegengine: ffmpeg not found")

	// ErrNotLoaded is returned when file or exec operations are called before Load.
	ErrNotLoaded = errors.New("ffmpegengine: engine not loaded")

	// ErrInvalidName is returned for file names that are not a single path element.
	ErrInvalidName = errors.New("ffmpegengine: invalid file name")
)
