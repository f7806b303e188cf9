package mp4probe

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
)

// High profile, 4:2:0, 8-bit, 1280x720.
const (
	highSPS = "67640020accac05005bb0169e0000003002000000c9c4c000432380008647c12401cb1c31380"
	highPPS = "68b5df20"
)

// avcInit builds an avc1 init segment from the parameter sets above.
func avcInit(t *testing.T) []byte {
	t.Helper()
	sps, _ := hex.DecodeString(highSPS)
	pps, _ := hex.DecodeString(highPPS)

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(12800, "video", "und")
	if err := init.Moov.Trak.SetAVCDescriptor("avc1", [][]byte{sps}, [][]byte{pps}, true); err != nil {
		t.Fatalf("SetAVCDescriptor failed: %v", err)
	}

	var buf bytes.Buffer
	if err := init.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestProbe_AVC(t *testing.T) {
	info, err := Probe(avcInit(t))
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if info.Codec != CodecH264 {
		t.Errorf("expected h264, got %s", info.Codec)
	}
	if info.PixelFormat != "yuv420p" {
		t.Errorf("expected yuv420p, got %q", info.PixelFormat)
	}
	if info.Width != 1280 || info.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", info.Width, info.Height)
	}
	if !info.Fragmented {
		t.Error("an init segment without samples should be reported as fragmented")
	}
}

func TestProbeFile_AVC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.mp4")
	if err := os.WriteFile(path, avcInit(t), 0644); err != nil {
		t.Fatal(err)
	}

	info, err := ProbeFile(path)
	if err != nil {
		t.Fatalf("ProbeFile failed: %v", err)
	}
	if info.Codec != CodecH264 || info.Width != 1280 {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestProber(t *testing.T) {
	info, err := NewProber().Probe(avcInit(t))
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Codec != "h264" || info.PixelFormat != "yuv420p" || info.Width != 1280 || info.Height != 720 {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestPixelFormat(t *testing.T) {
	tests := []struct {
		name    string
		profile uint32
		chroma  uint32
		depth   uint32
		want    string
	}{
		{"baseline", 66, 0, 0, "yuv420p"},
		{"main", 77, 0, 0, "yuv420p"},
		{"high 4:2:0", 100, 1, 0, "yuv420p"},
		{"high 4:2:2", 122, 2, 0, "yuv422p"},
		{"high 4:4:4", 244, 3, 0, "yuv444p"},
		{"high 10-bit", 110, 1, 2, "yuv420p10le"},
		{"monochrome", 100, 0, 0, "gray"},
		{"invalid chroma", 100, 7, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pixelFormat(tt.profile, tt.chroma, tt.depth); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestProbe_Empty(t *testing.T) {
	if _, err := Probe(nil); err == nil {
		t.Error("expected an error for empty input")
	}
}

func TestProbe_NotMP4(t *testing.T) {
	if _, err := Probe([]byte("definitely not an mp4 file")); err == nil {
		t.Error("expected an error for non-MP4 data")
	}
}

func TestProbeFile_Missing(t *testing.T) {
	if _, err := ProbeFile(filepath.Join(t.TempDir(), "missing.mp4")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
