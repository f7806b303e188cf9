package pipeline

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestComposeRequest_Validate(t *testing.T) {
	valid := func() ComposeRequest {
		return NewComposeRequest(ImageInput{{1}, {2}})
	}

	tests := []struct {
		name    string
		mutate  func(*ComposeRequest)
		wantErr bool
	}{
		{"defaults", func(r *ComposeRequest) {}, false},
		{"empty image", func(r *ComposeRequest) { r.Images[1] = nil }, true},
		{"zero seconds", func(r *ComposeRequest) { r.SecondsPerImage = 0 }, true},
		{"infinite seconds", func(r *ComposeRequest) { r.SecondsPerImage = math.Inf(1) }, true},
		{"NaN seconds", func(r *ComposeRequest) { r.SecondsPerImage = math.NaN() }, true},
		{"negative zoom frame rate", func(r *ComposeRequest) { r.Effects.ZoomFPS = -1 }, true},
		{"no codec", func(r *ComposeRequest) { r.Codec = "" }, true},
		{"no pixel format", func(r *ComposeRequest) { r.PixelFormat = "" }, true},
		{"zero zoom frames", func(r *ComposeRequest) { r.Effects.ZoomFrames = 0 }, true},
		{"inverted zoom", func(r *ComposeRequest) { r.Effects.ZoomMax = 0.5 }, true},
		{"inverted text window", func(r *ComposeRequest) { r.Effects.TextStart = 5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestComposeRequest_ValidateNoImages(t *testing.T) {
	err := NewComposeRequest(nil).Validate()
	if !errors.Is(err, ErrNoImages) {
		t.Errorf("expected ErrNoImages, got %v", err)
	}
}

func TestComposeRequest_ExpectedDuration(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ComposeRequest)
		want   time.Duration
	}{
		// 3 images × 125 frames at 25 fps
		{"defaults", func(r *ComposeRequest) {}, 15 * time.Second},
		{"seconds per image does not matter", func(r *ComposeRequest) { r.SecondsPerImage = 1.5 }, 15 * time.Second},
		{"shorter window", func(r *ComposeRequest) { r.Effects.ZoomFrames = 25 }, 3 * time.Second},
		{"explicit frame rate", func(r *ComposeRequest) { r.Effects.ZoomFPS = 50 }, 7500 * time.Millisecond},
		{"no zoom window", func(r *ComposeRequest) { r.Effects.ZoomFrames = 0; r.SecondsPerImage = 1.5 }, 4500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewComposeRequest(ImageInput{{1}, {2}, {3}})
			tt.modify(&req)
			if got := req.ExpectedDuration(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestImageInput_TotalBytes(t *testing.T) {
	in := ImageInput{make([]byte, 10), make([]byte, 5)}
	if got := in.TotalBytes(); got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
}

func TestStatus_String(t *testing.T) {
	tests := map[Status]string{
		StatusIdle:    "idle",
		StatusRunning: "running",
		StatusDone:    "done",
		StatusFailed:  "failed",
		Status(42):    "unknown",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
