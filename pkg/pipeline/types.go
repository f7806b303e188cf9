package pipeline

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"
)

// Defaults for a compose request.
const (
	DefaultSecondsPerImage = 3.0
	DefaultCodec           = "libx264"
	DefaultPixelFormat     = "yuv420p"
	DefaultDownloadName    = "ensaio_gestante.mp4"
	DefaultTitle           = "ENSAIO GESTANTE"
	DefaultSubtitle        = "ETERNIZE ESSE MOMENTO ESPECIAL"
	MIMETypeMP4            = "video/mp4"

	// EngineZoomFPS is the zoompan output rate when EffectSettings.ZoomFPS is zero.
	EngineZoomFPS = 25
)

// ErrNoImages is returned when a compose request carries no images.
var ErrNoImages = errors.New("no images to compose")

// =============================================================================
// Compose Types
// =============================================================================

// ImageInput is the ordered list of raw image buffers. The position of an
// image is its slideshow position.
type ImageInput [][]byte

// TotalBytes returns the combined size of all images.
func (in ImageInput) TotalBytes() int64 {
	var n int64
	for _, img := range in {
		n += int64(len(img))
	}
	return n
}

// OverlayText holds the strings rendered over the opening seconds of the video.
type OverlayText struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

// DefaultOverlayText returns the stock title and subtitle.
func DefaultOverlayText() OverlayText {
	return OverlayText{Title: DefaultTitle, Subtitle: DefaultSubtitle}
}

// EffectSettings controls the zoom, text and fade stages of the filter graph.
type EffectSettings struct {
	// Zoom oscillates between ZoomMin and ZoomMax, shrinking by ZoomStep per frame.
	ZoomMin    float64 `yaml:"zoom_min"`
	ZoomMax    float64 `yaml:"zoom_max"`
	ZoomStep   float64 `yaml:"zoom_step"`
	ZoomFrames int     `yaml:"zoom_frames"` // zoompan window length in frames
	ZoomFPS    int     `yaml:"zoom_fps"`    // zoompan output rate; zero keeps the engine default
	Size       string  `yaml:"size"`        // zoompan output size (e.g. "1280x720"); empty keeps the engine default

	TitleFontSize        int    `yaml:"title_font_size"`
	SubtitleFontSize     int    `yaml:"subtitle_font_size"`
	SubtitleMarginBottom int    `yaml:"subtitle_margin_bottom"`
	FontColor            string `yaml:"font_color"`

	// Overlay window in seconds during which both text overlays are visible.
	TextStart float64 `yaml:"text_start"`
	TextEnd   float64 `yaml:"text_end"`

	FadeInStart     float64 `yaml:"fade_in_start"`
	FadeInDuration  float64 `yaml:"fade_in_duration"`
	FadeOutStart    float64 `yaml:"fade_out_start"`
	FadeOutDuration float64 `yaml:"fade_out_duration"`
}

// DefaultEffectSettings returns the stock Ken Burns slideshow look.
func DefaultEffectSettings() EffectSettings {
	return EffectSettings{
		ZoomMin:    1.0,
		ZoomMax:    1.5,
		ZoomStep:   0.0015,
		ZoomFrames: 125,

		TitleFontSize:        30,
		SubtitleFontSize:     20,
		SubtitleMarginBottom: 20,
		FontColor:            "white",

		TextStart: 0,
		TextEnd:   3,

		FadeInStart:     0,
		FadeInDuration:  1,
		FadeOutStart:    2,
		FadeOutDuration: 1,
	}
}

// ComposeRequest describes one slideshow to produce.
type ComposeRequest struct {
	Images          ImageInput
	Text            OverlayText
	SecondsPerImage float64 // how long each image stays on screen
	Codec           string
	PixelFormat     string
	DownloadName    string // file name offered to the user
	Effects         EffectSettings
}

// NewComposeRequest returns a request for images with default settings.
func NewComposeRequest(images ImageInput) ComposeRequest {
	return ComposeRequest{
		Images:          images,
		Text:            DefaultOverlayText(),
		SecondsPerImage: DefaultSecondsPerImage,
		Codec:           DefaultCodec,
		PixelFormat:     DefaultPixelFormat,
		DownloadName:    DefaultDownloadName,
		Effects:         DefaultEffectSettings(),
	}
}

// Validate checks the request invariants. An empty image list yields ErrNoImages.
func (r ComposeRequest) Validate() error {
	if len(r.Images) == 0 {
		return ErrNoImages
	}
	for i, img := range r.Images {
		if len(img) == 0 {
			return fmt.Errorf("image %d is empty", i)
		}
	}
	if math.IsNaN(r.SecondsPerImage) || math.IsInf(r.SecondsPerImage, 0) || r.SecondsPerImage <= 0 {
		return fmt.Errorf("seconds per image must be positive, got %g", r.SecondsPerImage)
	}
	if r.Codec == "" {
		return fmt.Errorf("output codec is required")
	}
	if r.PixelFormat == "" {
		return fmt.Errorf("pixel format is required")
	}
	if r.Effects.ZoomFrames <= 0 {
		return fmt.Errorf("zoom window must be at least one frame, got %d", r.Effects.ZoomFrames)
	}
	if r.Effects.ZoomFPS < 0 {
		return fmt.Errorf("zoom frame rate must not be negative, got %d", r.Effects.ZoomFPS)
	}
	if r.Effects.ZoomMax < r.Effects.ZoomMin {
		return fmt.Errorf("zoom max %g is below zoom min %g", r.Effects.ZoomMax, r.Effects.ZoomMin)
	}
	if r.Effects.TextEnd < r.Effects.TextStart {
		return fmt.Errorf("text window ends (%gs) before it starts (%gs)", r.Effects.TextEnd, r.Effects.TextStart)
	}
	return nil
}

// ExpectedDuration is the length of the produced video. zoompan emits
// ZoomFrames frames per input image at ZoomFPS, so the output runs
// images × ZoomFrames / ZoomFPS regardless of SecondsPerImage.
func (r ComposeRequest) ExpectedDuration() time.Duration {
	if r.Effects.ZoomFrames <= 0 {
		return time.Duration(float64(len(r.Images)) * r.SecondsPerImage * float64(time.Second))
	}
	fps := r.Effects.ZoomFPS
	if fps <= 0 {
		fps = EngineZoomFPS
	}
	frames := int64(len(r.Images)) * int64(r.Effects.ZoomFrames)
	return time.Duration(frames) * time.Second / time.Duration(fps)
}

// VideoArtifact is a produced video, owned by the caller.
type VideoArtifact struct {
	Data     []byte
	MIMEType string
	Filename string // suggested download name
	URL      string // access handle; empty when no publisher is configured
}

// Size returns the artifact size in bytes.
func (a VideoArtifact) Size() int64 {
	return int64(len(a.Data))
}

// Status is the caller-visible state of a composer.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusDone
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// Normalize Stage Types
// =============================================================================

// NormalizeInput contains parameters for input image normalization.
type NormalizeInput struct {
	Images     ImageInput
	Width      int // target canvas width
	Height     int // target canvas height
	Background color.Color
	Quality    int // JPEG quality (1-100)
}

// DefaultNormalizeInput returns NormalizeInput with default values.
func DefaultNormalizeInput() NormalizeInput {
	return NormalizeInput{
		Width:      1280,
		Height:     720,
		Background: color.Black,
		Quality:    90,
	}
}

// NormalizeResult contains JPEG images of identical dimensions, in input order.
type NormalizeResult struct {
	Images ImageInput
	Width  int
	Height int
}
