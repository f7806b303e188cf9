package composer_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/user/slideshow/pkg/adapters/ffmpegengine"
	"github.com/user/slideshow/pkg/adapters/logger"
	"github.com/user/slideshow/pkg/adapters/mp4probe"
	"github.com/user/slideshow/pkg/composer"
	"github.com/user/slideshow/pkg/pipeline"
	"github.com/user/slideshow/pkg/session"
)

// requireFFmpeg skips unless ffmpeg with libx264 and drawtext is installed.
func requireFFmpeg(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping ffmpeg test in short mode")
	}
	binary, err := ffmpegengine.FindFFmpeg("")
	if err != nil {
		t.Skip("ffmpeg not available")
	}
	encoders, _ := exec.Command(binary, "-hide_banner", "-encoders").Output()
	if !bytes.Contains(encoders, []byte("libx264")) {
		t.Skip("ffmpeg built without libx264")
	}
	filters, _ := exec.Command(binary, "-hide_banner", "-filters").Output()
	if !bytes.Contains(filters, []byte("drawtext")) {
		t.Skip("ffmpeg built without drawtext")
	}
	return binary
}

func solidJPEG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCompose_FFmpeg(t *testing.T) {
	binary := requireFFmpeg(t)

	engine := ffmpegengine.New(ffmpegengine.Options{FFmpegPath: binary, ScratchDir: t.TempDir()}, logger.NewNoop())
	sess := session.New(engine, logger.NewNoop())
	t.Cleanup(func() { sess.Dispose() })

	var percents []int
	c := composer.New(sess, logger.NewNoop(), composer.WithProgressCallback(func(p int) {
		percents = append(percents, p)
	}))

	req := pipeline.NewComposeRequest(pipeline.ImageInput{
		solidJPEG(t, color.RGBA{200, 40, 40, 255}),
		solidJPEG(t, color.RGBA{40, 200, 40, 255}),
		solidJPEG(t, color.RGBA{40, 40, 200, 255}),
	})
	req.SecondsPerImage = 1
	req.Effects.Size = "320x240"
	req.Effects.ZoomFrames = 25

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	artifact, err := c.Compose(ctx, req)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if artifact.MIMEType != "video/mp4" || len(artifact.Data) == 0 {
		t.Fatalf("unexpected artifact: %s, %d bytes", artifact.MIMEType, len(artifact.Data))
	}

	info, err := mp4probe.Probe(artifact.Data)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if info.Codec != mp4probe.CodecH264 {
		t.Errorf("expected h264, got %s", info.Codec)
	}
	if info.PixelFormat != "yuv420p" {
		t.Errorf("expected yuv420p, got %s", info.PixelFormat)
	}
	if info.Width != 320 || info.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", info.Width, info.Height)
	}
	if info.Duration <= 0 {
		t.Errorf("expected a positive duration, got %s", info.Duration)
	}

	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Errorf("expected progress to end at 100, got %v", percents)
	}

	// Staged inputs and the output are cleaned up.
	entries, err := os.ReadDir(engine.Dir())
	if err != nil {
		t.Fatalf("read working directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected an empty working directory, found %d entries", len(entries))
	}

	// A second run reuses the loaded engine.
	if _, err := c.Compose(ctx, req); err != nil {
		t.Fatalf("second Compose failed: %v", err)
	}
	if sess.LoadAttempts() != 1 {
		t.Errorf("expected a single engine load, got %d", sess.LoadAttempts())
	}
}
