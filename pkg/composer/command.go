package composer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/user/slideshow/pkg/filtergraph"
	"github.com/user/slideshow/pkg/pipeline"
)

// File names inside the engine's working area.
const (
	InputPattern = "image%d.jpg"
	TitleFile    = "title.txt"
	SubtitleFile = "subtitle.txt"
	FontFile     = "font.ttf"
	OutputFile   = "output.mp4"
)

// ImageName returns the staged name of the image at position i.
func ImageName(i int) string {
	return fmt.Sprintf(InputPattern, i)
}

// BuildGraph returns the zoom, overlay and fade chain for req. Overlay text
// is rendered literally.
func BuildGraph(req pipeline.ComposeRequest) filtergraph.Graph {
	fx := req.Effects
	window := &filtergraph.Window{Start: fx.TextStart, End: fx.TextEnd}

	return filtergraph.Graph{
		filtergraph.ZoomPan{
			Zoom:   filtergraph.OscillatingZoom(fx.ZoomMin, fx.ZoomMax, fx.ZoomStep),
			Frames: fx.ZoomFrames,
			Size:   fx.Size,
			FPS:    fx.ZoomFPS,
		},
		filtergraph.DrawText{
			FontFile:  FontFile,
			FontSize:  fx.TitleFontSize,
			FontColor: fx.FontColor,
			X:         filtergraph.CenterX,
			Y:         filtergraph.CenterY,
			TextFile:  TitleFile,
			Expansion: filtergraph.ExpansionNone,
			Enable:    window,
		},
		filtergraph.DrawText{
			FontFile:  FontFile,
			FontSize:  fx.SubtitleFontSize,
			FontColor: fx.FontColor,
			X:         filtergraph.CenterX,
			Y:         filtergraph.BottomY(fx.SubtitleMarginBottom),
			TextFile:  SubtitleFile,
			Expansion: filtergraph.ExpansionNone,
			Enable:    window,
		},
		filtergraph.Fade{Type: filtergraph.FadeIn, Start: fx.FadeInStart, Duration: fx.FadeInDuration},
		filtergraph.Fade{Type: filtergraph.FadeOut, Start: fx.FadeOutStart, Duration: fx.FadeOutDuration},
	}
}

// BuildArgs returns the engine command line for req. The output file is
// always the last argument.
func BuildArgs(req pipeline.ComposeRequest) []string {
	return []string{
		"-framerate", Framerate(req.SecondsPerImage),
		"-i", InputPattern,
		"-vf", BuildGraph(req).String(),
		"-c:v", req.Codec,
		"-pix_fmt", req.PixelFormat,
		OutputFile,
	}
}

// Framerate returns the input frame rate that shows each image for
// secondsPerImage seconds. Whole seconds are written as a fraction ("1/3").
func Framerate(secondsPerImage float64) string {
	if secondsPerImage >= 1 && secondsPerImage == math.Trunc(secondsPerImage) {
		return "1/" + strconv.FormatFloat(secondsPerImage, 'f', -1, 64)
	}
	return strconv.FormatFloat(1/secondsPerImage, 'f', -1, 64)
}
