// Package main provides the CLI entry point for slideshow.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/user/slideshow/pkg/adapters/ffmpegengine"
	"github.com/user/slideshow/pkg/adapters/ggrenderer"
	"github.com/user/slideshow/pkg/adapters/logger"
	"github.com/user/slideshow/pkg/adapters/mp4probe"
	"github.com/user/slideshow/pkg/adapters/osfilesystem"
	"github.com/user/slideshow/pkg/adapters/preview"
	"github.com/user/slideshow/pkg/adapters/prommetrics"
	"github.com/user/slideshow/pkg/composer"
	"github.com/user/slideshow/pkg/config"
	"github.com/user/slideshow/pkg/orchestrator"
	"github.com/user/slideshow/pkg/ports"
	"github.com/user/slideshow/pkg/session"
	"github.com/user/slideshow/pkg/stages/normalize"
	"github.com/user/slideshow/pkg/summarizer"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "slideshow",
		Usage:   l10n.T("Create slideshow videos from still images"),
		Version: version,
		Commands: []*cli.Command{
			composeCommand(),
			probeCommand(),
		},
	}
}

func composeCommand() *cli.Command {
	return &cli.Command{
		Name:      "compose",
		Usage:     l10n.T("Compose images into an MP4 slideshow"),
		ArgsUsage: "IMAGE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: l10n.T("Output"), Usage: l10n.T("Output MP4 file path"), Value: config.Defaults().OutputPath},
			&cli.StringFlag{Name: "summary", Category: l10n.T("Output"), Usage: l10n.T("Write a Markdown summary to this path")},
			&cli.StringFlag{Name: "preview", Category: l10n.T("Output"), Usage: l10n.T("Serve the video for playback at this address until interrupted")},

			&cli.StringFlag{Name: "title", Category: l10n.T("Video"), Usage: l10n.T("Title overlay text")},
			&cli.StringFlag{Name: "subtitle", Category: l10n.T("Video"), Usage: l10n.T("Subtitle overlay text")},
			&cli.Float64Flag{Name: "seconds-per-image", Aliases: []string{"s"}, Category: l10n.T("Video"), Usage: l10n.T("How long each image stays on screen")},
			&cli.StringFlag{Name: "font", Category: l10n.T("Video"), Usage: l10n.T("TrueType font for the overlays")},
			&cli.BoolFlag{Name: "no-normalize", Category: l10n.T("Video"), Usage: l10n.T("Pass images to the engine unchanged")},

			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: l10n.T("Engine"), Usage: l10n.T("YAML configuration file")},
			&cli.StringFlag{Name: "ffmpeg", Category: l10n.T("Engine"), Usage: l10n.T("Path to the ffmpeg executable"), EnvVars: []string{"FFMPEG_PATH"}},

			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: l10n.T("Logging"), Usage: l10n.T("Log level (debug, info, warn, error)"), Value: "info"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Category: l10n.T("Logging"), Usage: l10n.T("Suppress all log output")},
		},
		Action: runCompose,
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Show the video stream of an MP4 file"),
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit(l10n.T("probe takes exactly one file"), 2)
			}
			info, err := mp4probe.ProbeFile(c.Args().First())
			if err != nil {
				return err
			}
			w := c.App.Writer
			fmt.Fprintf(w, "codec:       %s\n", info.Codec)
			fmt.Fprintf(w, "pix_fmt:     %s\n", info.PixelFormat)
			fmt.Fprintf(w, "size:        %dx%d\n", info.Width, info.Height)
			fmt.Fprintf(w, "duration:    %.3fs\n", info.Duration.Seconds())
			fmt.Fprintf(w, "frames:      %d\n", info.Frames)
			fmt.Fprintf(w, "fragmented:  %t\n", info.Fragmented)
			return nil
		},
	}
}

func runCompose(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit(l10n.T("at least one image is required"), 2)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := newLogger(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := osfilesystem.New()

	// Engine session
	engine := ffmpegengine.New(ffmpegengine.Options{
		FFmpegPath: cfg.FFmpegPath,
		ScratchDir: cfg.ScratchDir,
	}, log)
	sess := session.New(engine, log)
	defer sess.Dispose()

	// Composer options
	reg := prometheus.NewRegistry()
	opts := []composer.Option{
		composer.WithMetrics(prommetrics.New(reg)),
		composer.WithProgressCallback(func(percent int) {
			log.Info("Progress: %d%%", percent)
		}),
	}
	if cfg.Font != "" {
		font, err := fs.ReadFile(cfg.Font)
		if err != nil {
			return fmt.Errorf("read font: %w", err)
		}
		opts = append(opts, composer.WithFont(font))
	}
	if cfg.Normalize.Enabled {
		template, err := cfg.NormalizeInput()
		if err != nil {
			return err
		}
		stage := normalize.NewStage(ggrenderer.New(), log, cfg.Workers)
		opts = append(opts, composer.WithNormalizer(stage, template))
	}
	var server *preview.Server
	if cfg.PreviewAddr != "" {
		server = preview.New("http://"+cfg.PreviewAddr, reg, log)
		opts = append(opts, composer.WithPublisher(server))
	}

	comp := composer.New(sess, log, opts...)
	orch := orchestrator.New(comp, mp4probe.NewProber(), fs, log)

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig(c.Args().Slice()))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Interrupted, shutting down...")
		}
		return err
	}
	log.Info("Output saved to %s", result.OutputPath)

	if path := c.String("summary"); path != "" {
		if err := writeSummary(fs, path, cfg, result); err != nil {
			return err
		}
	}

	if server != nil {
		return server.ListenAndServe(ctx, cfg.PreviewAddr)
	}
	return nil
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("output") || cfg.OutputPath == "" {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("title") {
		cfg.Title = c.String("title")
	}
	if c.IsSet("subtitle") {
		cfg.Subtitle = c.String("subtitle")
	}
	if c.IsSet("seconds-per-image") {
		cfg.SecondsPerImage = c.Float64("seconds-per-image")
	}
	if c.IsSet("font") {
		cfg.Font = c.String("font")
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.String("ffmpeg")
	}
	if c.Bool("no-normalize") {
		cfg.Normalize.Enabled = false
	}
	if c.IsSet("preview") {
		cfg.PreviewAddr = c.String("preview")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, cli.Exit(err.Error(), 2)
	}
	return cfg, nil
}

func newLogger(c *cli.Context) (ports.Logger, error) {
	if c.Bool("quiet") {
		return logger.NewNoop(), nil
	}
	level, err := ports.ParseLogLevel(c.String("log-level"))
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	return logger.NewConsole(level), nil
}

func writeSummary(fs ports.FileSystem, path string, cfg config.Config, result orchestrator.RunResult) error {
	settings := summarizer.Settings{
		Title:           cfg.Title,
		Subtitle:        cfg.Subtitle,
		SecondsPerImage: cfg.SecondsPerImage,
		Codec:           cfg.Codec,
		PixelFormat:     cfg.PixelFormat,
		Normalized:      cfg.Normalize.Enabled,
		CanvasWidth:     cfg.Normalize.Width,
		CanvasHeight:    cfg.Normalize.Height,
	}
	video := summarizer.VideoInfo{
		Path:     result.OutputPath,
		FileSize: result.VideoFileSize,
	}
	if result.Probed {
		video.Codec = result.Video.Codec
		video.PixelFormat = result.Video.PixelFormat
		video.Width = result.Video.Width
		video.Height = result.Video.Height
		video.DurationMs = int(result.Video.Duration.Milliseconds())
		video.Frames = result.Video.Frames
	}

	summary := summarizer.NewBuilder().
		WithInput(result.ImageCount, result.InputBytes).
		WithSettings(settings).
		WithVideo(video).
		WithComposeTime(result.ComposeDuration).
		Build()

	w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(summarizer.WithVersion(version)), fs)
	return w.Write(path, summary)
}
