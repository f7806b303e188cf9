// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/slideshow/pkg/orchestrator"
	"github.com/user/slideshow/pkg/pipeline"
)

// Config represents the full configuration for slideshow.
type Config struct {
	// Output
	OutputPath   string `yaml:"output"`
	DownloadName string `yaml:"download_name"`

	// Overlay text
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`

	// Encoding
	SecondsPerImage float64 `yaml:"seconds_per_image"`
	Codec           string  `yaml:"codec"`
	PixelFormat     string  `yaml:"pixel_format"`

	// Font file for the overlays; empty uses the built-in font
	Font string `yaml:"font"`

	// Engine
	FFmpegPath string `yaml:"ffmpeg_path"`
	ScratchDir string `yaml:"scratch_dir"`

	// Input normalization
	Normalize NormalizeConfig `yaml:"normalize"`
	Workers   int             `yaml:"workers"`

	// Filter graph
	Effects pipeline.EffectSettings `yaml:"effects"`

	// Preview server address (e.g. "127.0.0.1:8080"); empty disables it
	PreviewAddr string `yaml:"preview_addr"`
}

// NormalizeConfig controls how input images are brought to one size.
type NormalizeConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
	Quality    int    `yaml:"quality"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputPath:   pipeline.DefaultDownloadName,
		DownloadName: pipeline.DefaultDownloadName,

		Title:    pipeline.DefaultTitle,
		Subtitle: pipeline.DefaultSubtitle,

		SecondsPerImage: pipeline.DefaultSecondsPerImage,
		Codec:           pipeline.DefaultCodec,
		PixelFormat:     pipeline.DefaultPixelFormat,

		Normalize: NormalizeConfig{
			Enabled:    true,
			Width:      1280,
			Height:     720,
			Background: "#000000",
			Quality:    90,
		},
		Workers: 4,

		Effects: pipeline.DefaultEffectSettings(),
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseColor(hex string) (color.Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return nil, fmt.Errorf("invalid color %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q", hex)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Validate checks values that cannot be caught by the compose request.
func (c Config) Validate() error {
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Normalize.Enabled {
		if c.Normalize.Width < 0 || c.Normalize.Height < 0 {
			return fmt.Errorf("normalize size must not be negative")
		}
		if _, err := ParseColor(c.Normalize.Background); err != nil {
			return fmt.Errorf("normalize background: %w", err)
		}
	}
	return nil
}

// NormalizeInput converts the normalize settings to a stage template.
func (c Config) NormalizeInput() (pipeline.NormalizeInput, error) {
	in := pipeline.DefaultNormalizeInput()
	in.Width = c.Normalize.Width
	in.Height = c.Normalize.Height
	if c.Normalize.Quality > 0 {
		in.Quality = c.Normalize.Quality
	}
	if c.Normalize.Background != "" {
		bg, err := ParseColor(c.Normalize.Background)
		if err != nil {
			return in, err
		}
		in.Background = bg
	}
	return in, nil
}

// ToComposeRequest converts Config to a compose request for images.
func (c Config) ToComposeRequest(images pipeline.ImageInput) pipeline.ComposeRequest {
	req := pipeline.NewComposeRequest(images)
	req.Text = pipeline.OverlayText{Title: c.Title, Subtitle: c.Subtitle}
	req.SecondsPerImage = c.SecondsPerImage
	req.Codec = c.Codec
	req.PixelFormat = c.PixelFormat
	req.Effects = c.Effects
	if c.DownloadName != "" {
		req.DownloadName = c.DownloadName
	}
	return req
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(inputs []string) orchestrator.Config {
	return orchestrator.Config{
		Inputs:     inputs,
		OutputPath: c.OutputPath,
		Request:    c.ToComposeRequest(nil),
	}
}
