package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/slideshow/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
// DecodeImage returns a 100x100 image unless DecodeImageFunc is set.
type Renderer struct {
	mu sync.Mutex

	DecodeImageFunc func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)

	// Recorded calls for verification
	Canvases    []*Canvas
	EncodeCalls int
	DecodeCalls int
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	c := &Canvas{Width: width, Height: height, Background: bg}
	m.mu.Lock()
	m.Canvases = append(m.Canvases, c)
	m.mu.Unlock()
	return c
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	m.mu.Lock()
	m.DecodeCalls++
	m.mu.Unlock()
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	m.mu.Lock()
	m.EncodeCalls++
	m.mu.Unlock()
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	b := img.Bounds()
	return []byte{0xFF, 0xD8, byte(b.Dx() % 256), byte(b.Dy() % 256)}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas that records draws.
type Canvas struct {
	Width      int
	Height     int
	Background color.Color
	Draws      []image.Rectangle
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	b := img.Bounds()
	m.Draws = append(m.Draws, image.Rect(x, y, x+b.Dx(), y+b.Dy()))
}

func (m *Canvas) DrawImageScaled(img image.Image, x, y, width, height int) {
	m.Draws = append(m.Draws, image.Rect(x, y, x+width, y+height))
}

func (m *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
}

var _ ports.Canvas = (*Canvas)(nil)
