package mocks

import (
	"github.com/user/slideshow/pkg/ports"
)

// Prober is a mock implementation of ports.Prober.
// By default it reports an H.264 yuv420p stream.
type Prober struct {
	ProbeFunc func(data []byte) (ports.VideoInfo, error)

	// Recorded calls for verification
	Calls int
}

func (m *Prober) Probe(data []byte) (ports.VideoInfo, error) {
	m.Calls++
	if m.ProbeFunc != nil {
		return m.ProbeFunc(data)
	}
	return ports.VideoInfo{Codec: "h264", PixelFormat: "yuv420p", Width: 1280, Height: 720}, nil
}

var _ ports.Prober = (*Prober)(nil)
