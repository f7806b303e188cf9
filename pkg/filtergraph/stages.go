package filtergraph

import (
	"fmt"
	"strconv"
)

// ZoomPan applies a continuous zoom over a window of frames.
type ZoomPan struct {
	Zoom   string // zoom expression, see OscillatingZoom
	Frames int    // frames produced per input image
	Size   string // output size, e.g. "1280x720"; empty keeps the engine default
	FPS    int    // output frame rate; zero keeps the engine default
}

func (ZoomPan) Name() string { return "zoompan" }

func (z ZoomPan) Options() []Option {
	opts := []Option{
		{Key: "z", Value: z.Zoom},
		{Key: "d", Value: strconv.Itoa(z.Frames)},
	}
	if z.Size != "" {
		opts = append(opts, Option{Key: "s", Value: z.Size})
	}
	if z.FPS > 0 {
		opts = append(opts, Option{Key: "fps", Value: strconv.Itoa(z.FPS)})
	}
	return opts
}

func (ZoomPan) sealed() {}

// OscillatingZoom returns a zoom expression that jumps to hi whenever the
// zoom has fallen to lo, and otherwise shrinks by step per frame without
// going below lo+0.001.
func OscillatingZoom(lo, hi, step float64) string {
	return fmt.Sprintf("if(lte(zoom,%s),%s,max(%s,zoom-%s))",
		formatNumber(lo), formatNumber(hi), formatNumber(lo+0.001), formatNumber(step))
}

// Window is a closed time interval in seconds.
type Window struct {
	Start float64
	End   float64
}

// Expr returns the engine enable expression for the window.
func (w Window) Expr() string {
	return fmt.Sprintf("between(t,%s,%s)", formatNumber(w.Start), formatNumber(w.End))
}

// DrawText renders the contents of a text file over the video.
type DrawText struct {
	FontFile  string
	FontSize  int
	FontColor string
	X         string // horizontal position expression
	Y         string // vertical position expression
	TextFile  string
	Expansion Expansion // empty keeps the engine default (normal)
	Enable    *Window   // nil keeps the text visible for the whole video
}

// Expansion selects how drawtext interprets the text it renders.
type Expansion string

const (
	// ExpansionNone renders the text literally: no %{...} sequences, no escapes.
	ExpansionNone     Expansion = "none"
	ExpansionNormal   Expansion = "normal"
	ExpansionStrftime Expansion = "strftime"
)

// Centered and bottom position expressions for DrawText.
const (
	CenterX = "(w-tw)/2"
	CenterY = "(h-th)/2"
)

// BottomY returns a Y expression placing text margin pixels above the bottom edge.
func BottomY(margin int) string {
	return fmt.Sprintf("h-th-%d", margin)
}

func (DrawText) Name() string { return "drawtext" }

func (d DrawText) Options() []Option {
	opts := []Option{
		{Key: "fontfile", Value: d.FontFile},
		{Key: "fontsize", Value: strconv.Itoa(d.FontSize)},
		{Key: "fontcolor", Value: d.FontColor},
		{Key: "x", Value: d.X},
		{Key: "y", Value: d.Y},
		{Key: "textfile", Value: d.TextFile},
	}
	if d.Expansion != "" {
		opts = append(opts, Option{Key: "expansion", Value: string(d.Expansion)})
	}
	if d.Enable != nil {
		opts = append(opts, Option{Key: "enable", Value: d.Enable.Expr()})
	}
	return opts
}

func (DrawText) sealed() {}

// FadeType selects a fade direction.
type FadeType string

const (
	FadeIn  FadeType = "in"
	FadeOut FadeType = "out"
)

// Fade fades the video from or to black.
type Fade struct {
	Type     FadeType
	Start    float64 // seconds
	Duration float64 // seconds
}

func (Fade) Name() string { return "fade" }

func (f Fade) Options() []Option {
	return []Option{
		{Key: "t", Value: string(f.Type)},
		{Key: "st", Value: formatNumber(f.Start)},
		{Key: "d", Value: formatNumber(f.Duration)},
	}
}

func (Fade) sealed() {}
