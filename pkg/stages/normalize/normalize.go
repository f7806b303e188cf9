// Package normalize implements the input normalization stage: every image
// is letterboxed onto a canvas of one common size and re-encoded as JPEG.
package normalize

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sort"
	"sync"

	"github.com/user/slideshow/pkg/pipeline"
	"github.com/user/slideshow/pkg/ports"
)

// Stage normalizes input images.
type Stage struct {
	renderer   ports.Renderer
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new normalize stage.
func NewStage(renderer ports.Renderer, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		renderer:   renderer,
		logger:     logger.WithComponent("normalize"),
		numWorkers: numWorkers,
	}
}

// Execute normalizes all images. When Width or Height is zero the size of
// the first image is used. Dimensions are rounded down to even numbers.
func (s *Stage) Execute(ctx context.Context, input pipeline.NormalizeInput) (pipeline.NormalizeResult, error) {
	if len(input.Images) == 0 {
		return pipeline.NormalizeResult{}, pipeline.ErrNoImages
	}

	width, height := input.Width, input.Height
	if width <= 0 || height <= 0 {
		first, err := s.renderer.DecodeImage(input.Images[0], ports.FormatAuto)
		if err != nil {
			return pipeline.NormalizeResult{}, fmt.Errorf("decode image 0: %w", err)
		}
		width, height = first.Bounds().Dx(), first.Bounds().Dy()
	}
	width, height = even(width), even(height)
	if width == 0 || height == 0 {
		return pipeline.NormalizeResult{}, fmt.Errorf("canvas too small: %dx%d", width, height)
	}

	bg := input.Background
	if bg == nil {
		bg = color.Black
	}
	quality := input.Quality
	if quality <= 0 {
		quality = pipeline.DefaultNormalizeInput().Quality
	}

	workers := s.numWorkers
	if workers > len(input.Images) {
		workers = len(input.Images)
	}
	s.logger.Debug("Normalizing %d images to %dx%d with %d workers", len(input.Images), width, height, workers)

	job := job{width: width, height: height, bg: bg, quality: quality}
	images, err := s.executeParallel(ctx, input.Images, job, workers)
	if err != nil {
		return pipeline.NormalizeResult{}, err
	}

	return pipeline.NormalizeResult{Images: images, Width: width, Height: height}, nil
}

// job holds the per-run settings shared by all workers.
type job struct {
	width, height int
	bg            color.Color
	quality       int
}

// indexedImage holds an image with its original index for sorting.
type indexedImage struct {
	index int
	data  []byte
}

func (s *Stage) executeParallel(ctx context.Context, images pipeline.ImageInput, j job, workers int) (pipeline.ImageInput, error) {
	jobs := make(chan int, len(images))
	results := make(chan indexedImage, len(images))
	errChan := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, images, j, jobs, results, errChan)
	}

	for i := range images {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
		close(errChan)
	}()

	collected := make([]indexedImage, 0, len(images))
	for result := range results {
		collected = append(collected, result)
	}

	if err := <-errChan; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(collected, func(a, b int) bool {
		return collected[a].index < collected[b].index
	})

	out := make(pipeline.ImageInput, len(collected))
	for i, img := range collected {
		out[i] = img.data
	}
	return out, nil
}

func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	images pipeline.ImageInput,
	j job,
	jobs <-chan int,
	results chan<- indexedImage,
	errChan chan<- error,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		data, err := s.normalizeImage(images[idx], j)
		if err != nil {
			select {
			case errChan <- fmt.Errorf("normalize image %d: %w", idx, err):
			default:
			}
			return
		}

		results <- indexedImage{index: idx, data: data}
	}
}

func (s *Stage) normalizeImage(data []byte, j job) ([]byte, error) {
	img, err := s.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	canvas := s.renderer.CreateCanvas(j.width, j.height, j.bg)
	dst := Fit(img.Bounds(), j.width, j.height)
	canvas.DrawImageScaled(img, dst.Min.X, dst.Min.Y, dst.Dx(), dst.Dy())

	out, err := s.renderer.EncodeImage(canvas.ToImage(), ports.FormatJPEG, j.quality)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out, nil
}

// Fit returns the largest rectangle with the aspect ratio of src that fits
// centered inside a width×height canvas.
func Fit(src image.Rectangle, width, height int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 {
		return image.Rect(0, 0, width, height)
	}

	dw, dh := width, sh*width/sw
	if dh > height {
		dw, dh = sw*height/sh, height
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	x := (width - dw) / 2
	y := (height - dh) / 2
	return image.Rect(x, y, x+dw, y+dh)
}

func even(n int) int {
	return n &^ 1
}
