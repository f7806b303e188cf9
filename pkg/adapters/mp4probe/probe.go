// Package mp4probe reads codec and stream properties from MP4 files.
package mp4probe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/slideshow/pkg/ports"
)

// Codec names a video codec.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecUnknown Codec = "unknown"
)

// ErrNoVideoTrack is returned when the file has no video track.
var ErrNoVideoTrack = errors.New("mp4probe: no video track found")

// Info describes the first video track of an MP4 file.
type Info struct {
	Codec       Codec
	PixelFormat string // e.g. "yuv420p"; empty when unknown
	Width       int
	Height      int
	Duration    time.Duration
	Frames      int
	Fragmented  bool
}

// ProbeFile probes the MP4 file at path.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// Probe probes MP4 data held in memory.
func Probe(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("decode mp4: empty input")
	}
	return ProbeReader(bytes.NewReader(data))
}

// ProbeReader probes MP4 data from r.
func ProbeReader(r io.ReadSeeker) (Info, error) {
	file, err := mp4.DecodeFile(r)
	if err != nil {
		return Info{}, fmt.Errorf("decode mp4: %w", err)
	}

	var moov *mp4.MoovBox
	if file.IsFragmented() && file.Init != nil {
		moov = file.Init.Moov
	} else {
		moov = file.Moov
	}
	if moov == nil {
		return Info{}, ErrNoVideoTrack
	}

	for _, trak := range moov.Traks {
		if info, ok := probeTrack(trak); ok {
			info.Fragmented = file.IsFragmented()
			return info, nil
		}
	}
	return Info{}, ErrNoVideoTrack
}

func probeTrack(trak *mp4.TrakBox) (Info, bool) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return Info{}, false
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return Info{}, false
	}
	stbl := trak.Mdia.Minf.Stbl

	info := Info{Codec: CodecUnknown}
	for _, child := range stbl.Stsd.Children {
		entry, ok := child.(*mp4.VisualSampleEntryBox)
		if !ok {
			continue
		}
		info.Width = int(entry.Width)
		info.Height = int(entry.Height)

		switch entry.Type() {
		case "avc1", "avc3":
			info.Codec = CodecH264
			if entry.AvcC != nil && len(entry.AvcC.SPSnalus) > 0 {
				if sps, err := avc.ParseSPSNALUnit(entry.AvcC.SPSnalus[0], false); err == nil {
					info.PixelFormat = pixelFormat(uint32(sps.Profile), uint32(sps.ChromaFormatIDC), uint32(sps.BitDepthLumaMinus8))
				}
			}
		case "hvc1", "hev1":
			info.Codec = CodecHEVC
		case "av01":
			info.Codec = CodecAV1
		}
		break
	}

	if mdhd := trak.Mdia.Mdhd; mdhd != nil && mdhd.Timescale > 0 {
		info.Duration = time.Duration(float64(mdhd.Duration) / float64(mdhd.Timescale) * float64(time.Second))
	}
	if stbl.Stsz != nil {
		info.Frames = int(stbl.Stsz.SampleNumber)
	}
	return info, true
}

// pixelFormat maps H.264 SPS fields to an ffmpeg pixel format name.
// Profiles below High (100) carry no chroma information and are always 4:2:0.
func pixelFormat(profile, chromaFormatIdc, bitDepthLumaMinus8 uint32) string {
	if profile < 100 {
		chromaFormatIdc = 1
	}

	var base string
	switch chromaFormatIdc {
	case 0:
		base = "gray"
	case 1:
		base = "yuv420p"
	case 2:
		base = "yuv422p"
	case 3:
		base = "yuv444p"
	default:
		return ""
	}

	if bitDepthLumaMinus8 == 0 {
		return base
	}
	suffix := fmt.Sprintf("%d", 8+bitDepthLumaMinus8)
	if base == "gray" {
		return base + suffix
	}
	return base + suffix + "le"
}

// Prober implements ports.Prober for MP4 data.
type Prober struct{}

// NewProber creates a Prober.
func NewProber() *Prober {
	return &Prober{}
}

// Probe implements ports.Prober.
func (p *Prober) Probe(data []byte) (ports.VideoInfo, error) {
	info, err := Probe(data)
	if err != nil {
		return ports.VideoInfo{}, err
	}
	return ports.VideoInfo{
		Codec:       string(info.Codec),
		PixelFormat: info.PixelFormat,
		Width:       info.Width,
		Height:      info.Height,
		Duration:    info.Duration,
		Frames:      info.Frames,
	}, nil
}

var _ ports.Prober = (*Prober)(nil)
