// Package summarizer provides summary generation for compose results.
package summarizer

import "time"

// Summary contains all data collected during one compose run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input images
	Input InputInfo

	// Compose settings
	Settings Settings

	// Video output details
	Video VideoInfo

	// Wall-clock time spent composing
	ComposeMs int
}

// InputInfo describes the input images.
type InputInfo struct {
	ImageCount int
	TotalBytes int64
}

// Settings contains the compose configuration.
type Settings struct {
	Title           string
	Subtitle        string
	SecondsPerImage float64
	Codec           string
	PixelFormat     string
	Normalized      bool
	CanvasWidth     int // zero when images were not normalized
	CanvasHeight    int
}

// VideoInfo contains information about the output video.
type VideoInfo struct {
	Path        string
	Codec       string
	PixelFormat string
	Width       int
	Height      int
	DurationMs  int
	Frames      int
	FileSize    int64
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets input image information.
func (b *Builder) WithInput(imageCount int, totalBytes int64) *Builder {
	b.summary.Input = InputInfo{
		ImageCount: imageCount,
		TotalBytes: totalBytes,
	}
	return b
}

// WithSettings sets compose settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithVideo sets video output information.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// WithComposeTime sets the time spent composing.
func (b *Builder) WithComposeTime(d time.Duration) *Builder {
	b.summary.ComposeMs = int(d.Milliseconds())
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
