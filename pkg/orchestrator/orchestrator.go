// Package orchestrator runs one slideshow job: it loads the input images,
// composes the video, writes it out and probes the result.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/user/slideshow/pkg/pipeline"
	"github.com/user/slideshow/pkg/ports"
)

// Config contains all configuration for one orchestrator run.
type Config struct {
	// Input image paths, in slideshow order
	Inputs []string

	// Output video path
	OutputPath string

	// Compose settings. Images is filled from Inputs.
	Request pipeline.ComposeRequest
}

// DefaultConfig returns a Config with default compose settings.
func DefaultConfig() Config {
	return Config{
		OutputPath: pipeline.DefaultDownloadName,
		Request:    pipeline.NewComposeRequest(nil),
	}
}

// Orchestrator coordinates loading, composing and writing a slideshow.
type Orchestrator struct {
	composeStage pipeline.Stage[pipeline.ComposeRequest, pipeline.VideoArtifact]
	prober       ports.Prober
	fs           ports.FileSystem
	logger       ports.Logger
}

// New creates a new Orchestrator. prober may be nil.
func New(
	composeStage pipeline.Stage[pipeline.ComposeRequest, pipeline.VideoArtifact],
	prober ports.Prober,
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		composeStage: composeStage,
		prober:       prober,
		fs:           fs,
		logger:       logger,
	}
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info("Starting pipeline")

	var loaded pipeline.ComposeRequest
	load := pipeline.StageFunc[Config, pipeline.ComposeRequest](func(ctx context.Context, config Config) (pipeline.ComposeRequest, error) {
		req, err := o.loadImages(ctx, config)
		loaded = req
		return req, err
	})

	// 1-2. Load images, then compose
	start := time.Now()
	artifact, err := pipeline.Then[Config, pipeline.ComposeRequest, pipeline.VideoArtifact](load, o.composeStage).Execute(ctx, config)
	if err != nil {
		o.logger.Error("Failed to compose video: %s", err)
		return RunResult{}, err
	}
	elapsed := time.Since(start)
	o.logger.Info("Video composed: %d bytes", len(artifact.Data))

	// 3. Write output file
	if err := o.fs.WriteFile(config.OutputPath, artifact.Data); err != nil {
		o.logger.Error("Failed to write output: %s", err)
		return RunResult{}, fmt.Errorf("write output: %w", err)
	}
	o.logger.Info("Wrote %s", config.OutputPath)

	result := RunResult{
		ImageCount:      len(loaded.Images),
		InputBytes:      loaded.Images.TotalBytes(),
		OutputPath:      config.OutputPath,
		URL:             artifact.URL,
		VideoFileSize:   artifact.Size(),
		ComposeDuration: elapsed,
	}

	// 4. Probe the result (informational)
	if o.prober != nil {
		info, err := o.prober.Probe(artifact.Data)
		if err != nil {
			o.logger.Warn("Could not inspect output video: %s", err)
		} else {
			result.Video = info
			result.Probed = true
			o.logger.Info("Output video: %s %s %dx%d, %.2fs", info.Codec, info.PixelFormat, info.Width, info.Height, info.Duration.Seconds())
		}
	}

	o.logger.Info("Pipeline completed successfully")
	return result, nil
}

func (o *Orchestrator) loadImages(ctx context.Context, config Config) (pipeline.ComposeRequest, error) {
	req := config.Request
	if len(config.Inputs) == 0 {
		return req, pipeline.ErrNoImages
	}

	o.logger.Info("Loading %d images", len(config.Inputs))
	images := make(pipeline.ImageInput, 0, len(config.Inputs))
	for _, path := range config.Inputs {
		if err := ctx.Err(); err != nil {
			return req, err
		}
		data, err := o.fs.ReadFile(path)
		if err != nil {
			o.logger.Error("Failed to read %s: %s", path, err)
			return req, fmt.Errorf("load stage: %w", err)
		}
		o.logger.Debug("Loaded %s (%d bytes)", path, len(data))
		images = append(images, data)
	}
	req.Images = images
	return req, nil
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	// Input information
	ImageCount int
	InputBytes int64

	// Output information
	OutputPath      string
	URL             string // preview handle; empty without a publisher
	VideoFileSize   int64
	ComposeDuration time.Duration

	// Stream details, valid when Probed is set
	Video  ports.VideoInfo
	Probed bool
}
