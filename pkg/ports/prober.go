package ports

import "time"

// VideoInfo describes the video stream of a produced file.
type VideoInfo struct {
	Codec       string // e.g. "h264"
	PixelFormat string // e.g. "yuv420p"; empty when unknown
	Width       int
	Height      int
	Duration    time.Duration
	Frames      int
}

// Prober inspects encoded video data.
type Prober interface {
	Probe(data []byte) (VideoInfo, error)
}
