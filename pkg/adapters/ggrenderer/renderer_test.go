package ggrenderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/slideshow/pkg/ports"
)

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(100, 100, color.White)
	if canvas == nil {
		t.Fatal("expected canvas to be created")
	}

	img := canvas.ToImage()
	bounds := img.Bounds()

	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("expected 100x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_EncodeDecodeJPEG(t *testing.T) {
	r := New()

	// Create test image
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	// Encode
	data, err := r.EncodeImage(img, ports.FormatJPEG, 80)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty data")
	}

	// Decode
	decoded, err := r.DecodeImage(data, ports.FormatJPEG)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("expected 50x50, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_EncodeDecodePNG(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 30, 30))

	// Encode
	data, err := r.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	// Decode
	decoded, err := r.DecodeImage(data, ports.FormatPNG)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 30 || bounds.Dy() != 30 {
		t.Errorf("expected 30x30, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()

	// Create 100x100 image
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	// Resize to 50x50
	resized := r.ResizeImage(img, 50, 50)

	bounds := resized.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("expected 50x50, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_DecodeAuto(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 12, 8))

	for _, format := range []ports.ImageFormat{ports.FormatJPEG, ports.FormatPNG} {
		data, err := r.EncodeImage(img, format, 90)
		if err != nil {
			t.Fatalf("EncodeImage failed: %v", err)
		}
		decoded, err := r.DecodeImage(data, ports.FormatAuto)
		if err != nil {
			t.Fatalf("DecodeImage(FormatAuto) failed: %v", err)
		}
		if decoded.Bounds().Dx() != 12 || decoded.Bounds().Dy() != 8 {
			t.Errorf("expected 12x8, got %v", decoded.Bounds())
		}
	}
}

func TestRenderer_DecodeInvalid(t *testing.T) {
	r := New()
	if _, err := r.DecodeImage([]byte("not an image"), ports.FormatAuto); err == nil {
		t.Error("expected an error for invalid data")
	}
}

func TestRenderer_EncodeClampsQuality(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	for _, q := range []int{-5, 0, 150} {
		if _, err := r.EncodeImage(img, ports.FormatJPEG, q); err != nil {
			t.Errorf("quality %d: unexpected error %v", q, err)
		}
	}
}

func TestCanvas_DrawImageScaled(t *testing.T) {
	r := NewFast()
	canvas := r.CreateCanvas(100, 50, color.Black)

	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	canvas.DrawImageScaled(src, 25, 0, 50, 50)
	img := canvas.ToImage()

	if r, _, _, _ := img.At(50, 25).RGBA(); r>>8 != 255 {
		t.Errorf("expected red inside the scaled area, got r=%d", r>>8)
	}
	if r, g, b, _ := img.At(5, 25).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black outside the scaled area, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestCanvas_DrawImage(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(20, 20, color.White)

	src := image.NewRGBA(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			src.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	canvas.DrawImage(src, 10, 10)

	if _, _, b, _ := canvas.ToImage().At(12, 12).RGBA(); b>>8 != 255 {
		t.Errorf("expected blue at the drawn position, got b=%d", b>>8)
	}
}
