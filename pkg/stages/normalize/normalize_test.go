package normalize

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/user/slideshow/pkg/adapters/ggrenderer"
	"github.com/user/slideshow/pkg/adapters/logger"
	"github.com/user/slideshow/pkg/mocks"
	"github.com/user/slideshow/pkg/pipeline"
	"github.com/user/slideshow/pkg/ports"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name   string
		src    image.Rectangle
		w, h   int
		expect image.Rectangle
	}{
		{"same aspect", image.Rect(0, 0, 640, 360), 1280, 720, image.Rect(0, 0, 1280, 720)},
		{"portrait in landscape", image.Rect(0, 0, 300, 600), 1280, 720, image.Rect(460, 0, 820, 720)},
		{"wide in landscape", image.Rect(0, 0, 2000, 500), 1280, 720, image.Rect(0, 200, 1280, 520)},
		{"empty source", image.Rectangle{}, 100, 50, image.Rect(0, 0, 100, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(tt.src, tt.w, tt.h); got != tt.expect {
				t.Errorf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestStage_PreservesOrder(t *testing.T) {
	// Each input decodes to an image whose width is its first byte.
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
			return image.NewRGBA(image.Rect(0, 0, int(data[0]), 10)), nil
		},
	}
	stage := NewStage(&orderRenderer{Renderer: renderer}, logger.NewNoop(), 4)

	input := pipeline.DefaultNormalizeInput()
	for i := 1; i <= 20; i++ {
		input.Images = append(input.Images, []byte{byte(i)})
	}

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(result.Images) != 20 {
		t.Fatalf("expected 20 images, got %d", len(result.Images))
	}
	for i, img := range result.Images {
		if int(img[0]) != i+1 {
			t.Errorf("position %d holds image %d", i, img[0])
		}
	}
}

// orderRenderer tags each encoded image with the source width it was drawn from.
type orderRenderer struct {
	*mocks.Renderer
}

func (r *orderRenderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	return &taggingCanvas{Canvas: r.Renderer.CreateCanvas(width, height, bg).(*mocks.Canvas)}
}

func (r *orderRenderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	return []byte{byte(img.(*taggedImage).tag)}, nil
}

type taggingCanvas struct {
	*mocks.Canvas
	tag int
}

func (c *taggingCanvas) DrawImageScaled(img image.Image, x, y, width, height int) {
	c.tag = img.Bounds().Dx()
	c.Canvas.DrawImageScaled(img, x, y, width, height)
}

func (c *taggingCanvas) ToImage() image.Image {
	return &taggedImage{Image: c.Canvas.ToImage(), tag: c.tag}
}

type taggedImage struct {
	image.Image
	tag int
}

func TestStage_LetterboxesOntoCanvas(t *testing.T) {
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
			return image.NewRGBA(image.Rect(0, 0, 300, 600)), nil
		},
	}
	stage := NewStage(renderer, logger.NewNoop(), 1)

	input := pipeline.DefaultNormalizeInput()
	input.Images = pipeline.ImageInput{{1}}
	input.Background = color.White

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Width != 1280 || result.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", result.Width, result.Height)
	}
	if len(renderer.Canvases) != 1 {
		t.Fatalf("expected 1 canvas, got %d", len(renderer.Canvases))
	}
	canvas := renderer.Canvases[0]
	if canvas.Background != color.White {
		t.Errorf("expected white background, got %v", canvas.Background)
	}
	if len(canvas.Draws) != 1 || canvas.Draws[0] != image.Rect(460, 0, 820, 720) {
		t.Errorf("unexpected draw: %v", canvas.Draws)
	}
}

func TestStage_SizeFromFirstImage(t *testing.T) {
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
			return image.NewRGBA(image.Rect(0, 0, 641, 361)), nil
		},
	}
	stage := NewStage(renderer, logger.NewNoop(), 2)

	input := pipeline.NormalizeInput{Images: pipeline.ImageInput{{1}, {2}}}
	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Width != 640 || result.Height != 360 {
		t.Errorf("expected even 640x360, got %dx%d", result.Width, result.Height)
	}
}

func TestStage_DecodeError(t *testing.T) {
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
			if data[0] == 2 {
				return nil, errors.New("corrupt")
			}
			return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
		},
	}
	stage := NewStage(renderer, logger.NewNoop(), 2)

	input := pipeline.DefaultNormalizeInput()
	input.Images = pipeline.ImageInput{{1}, {2}, {3}}

	if _, err := stage.Execute(context.Background(), input); err == nil {
		t.Fatal("expected an error")
	}
}

func TestStage_NoImages(t *testing.T) {
	stage := NewStage(&mocks.Renderer{}, logger.NewNoop(), 1)

	_, err := stage.Execute(context.Background(), pipeline.DefaultNormalizeInput())
	if !errors.Is(err, pipeline.ErrNoImages) {
		t.Errorf("expected ErrNoImages, got %v", err)
	}
}

func TestStage_Cancelled(t *testing.T) {
	stage := NewStage(&mocks.Renderer{}, logger.NewNoop(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := pipeline.DefaultNormalizeInput()
	input.Images = pipeline.ImageInput{{1}, {2}}

	if _, err := stage.Execute(ctx, input); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStage_RealImages(t *testing.T) {
	stage := NewStage(ggrenderer.NewFast(), logger.NewNoop(), 2)

	src := image.NewRGBA(image.Rect(0, 0, 40, 80))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png encode: %v", err)
	}

	input := pipeline.NormalizeInput{
		Images:     pipeline.ImageInput{buf.Bytes()},
		Width:      64,
		Height:     36,
		Background: color.Black,
		Quality:    80,
	}
	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(result.Images[0]))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg, got %s", format)
	}
	if cfg.Width != 64 || cfg.Height != 36 {
		t.Errorf("expected 64x36, got %dx%d", cfg.Width, cfg.Height)
	}
}
