// Package composer turns an ordered list of still images into an MP4 slideshow
// by driving a transcoding engine through a staged write, exec, read-back cycle.
package composer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/user/slideshow/pkg/pipeline"
	"github.com/user/slideshow/pkg/ports"
	"github.com/user/slideshow/pkg/session"
)

// Option configures a Composer.
type Option func(*Composer)

// WithFont sets the TrueType font staged for the text overlays.
// Without it the Go Regular font is used.
func WithFont(data []byte) Option {
	return func(c *Composer) {
		if len(data) > 0 {
			c.font = data
		}
	}
}

// WithNormalizer runs stage over the images before they are staged.
// template supplies every NormalizeInput field except Images.
func WithNormalizer(stage pipeline.Stage[pipeline.NormalizeInput, pipeline.NormalizeResult], template pipeline.NormalizeInput) Option {
	return func(c *Composer) {
		c.normalizer = stage
		c.normalizeTemplate = template
	}
}

// WithPublisher publishes every produced artifact and revokes it on Reset.
func WithPublisher(p ports.Publisher) Option {
	return func(c *Composer) { c.publisher = p }
}

// WithMetrics records compose outcomes.
func WithMetrics(m ports.Metrics) Option {
	return func(c *Composer) { c.metrics = m }
}

// WithProgressCallback is called with every new progress percentage.
func WithProgressCallback(fn func(percent int)) Option {
	return func(c *Composer) { c.onProgress = fn }
}

// Composer produces one video at a time from a warm engine session.
type Composer struct {
	session *session.Session
	logger  ports.Logger

	font              []byte
	normalizer        pipeline.Stage[pipeline.NormalizeInput, pipeline.NormalizeResult]
	normalizeTemplate pipeline.NormalizeInput
	publisher         ports.Publisher
	metrics           ports.Metrics
	onProgress        func(percent int)

	mu       sync.Mutex
	status   pipeline.Status
	progress int
	artifact *pipeline.VideoArtifact
	cancel   context.CancelFunc
	reset    bool     // Reset was called while running
	staged   []string // names written to the engine since the last cleanup
}

// New creates a Composer over sess.
func New(sess *session.Session, logger ports.Logger, opts ...Option) *Composer {
	c := &Composer{
		session: sess,
		logger:  logger.WithComponent("composer"),
		font:    goregular.TTF,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureReady loads the engine if it is not loaded yet.
func (c *Composer) EnsureReady(ctx context.Context) error {
	if err := c.session.Init(ctx); err != nil {
		return &EngineInitError{Err: err}
	}
	return nil
}

// StageInputs writes the images as image{i}.jpg, the overlay text files and
// the font into the engine. It stops at the first failed write; files
// already written stay until the next cleanup.
func (c *Composer) StageInputs(ctx context.Context, images pipeline.ImageInput, text pipeline.OverlayText) error {
	if !c.session.IsReady() {
		return &StagingError{Name: "inputs", Err: ErrNotReady}
	}

	engine := c.session.Engine()
	write := func(name string, data []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.track(name)
		if err := engine.WriteFile(ctx, name, data); err != nil {
			return &StagingError{Name: name, Err: err}
		}
		c.logger.Debug("Staged %s (%d bytes)", name, len(data))
		return nil
	}

	for i, img := range images {
		if err := write(ImageName(i), img); err != nil {
			return err
		}
	}
	if err := write(TitleFile, []byte(text.Title)); err != nil {
		return err
	}
	if err := write(SubtitleFile, []byte(text.Subtitle)); err != nil {
		return err
	}
	return write(FontFile, c.font)
}

// Compose produces a video for req. Only one Compose runs at a time; a call
// made while another is running fails with *BusyError and changes nothing.
func (c *Composer) Compose(ctx context.Context, req pipeline.ComposeRequest) (pipeline.VideoArtifact, error) {
	runCtx, err := c.begin(ctx)
	if err != nil {
		c.logger.Warn("Compose rejected: another compose is running")
		c.recordOutcome(ports.OutcomeRejected, 0)
		return pipeline.VideoArtifact{}, err
	}

	start := time.Now()
	if c.metrics != nil {
		c.metrics.ComposeStarted()
	}

	if err := req.Validate(); err != nil {
		if !errors.Is(err, ErrNoImages) {
			err = &ValidationError{Err: err}
		}
		return c.finish(runCtx, pipeline.VideoArtifact{}, err, start)
	}

	c.logger.Info("Composing %d images", len(req.Images))
	artifact, err := c.run(runCtx, req)
	return c.finish(runCtx, artifact, err, start)
}

// Execute implements pipeline.Stage.
func (c *Composer) Execute(ctx context.Context, req pipeline.ComposeRequest) (pipeline.VideoArtifact, error) {
	return c.Compose(ctx, req)
}

// Reset discards the current artifact and returns to idle. The engine stays
// loaded. A compose in progress is cancelled and its result discarded.
func (c *Composer) Reset() {
	c.mu.Lock()
	if c.status == pipeline.StatusRunning {
		c.reset = true
		if c.cancel != nil {
			c.cancel()
		}
		c.mu.Unlock()
		c.logger.Info("Cancelling compose in progress")
		return
	}

	var url string
	if c.artifact != nil {
		url = c.artifact.URL
	}
	c.artifact = nil
	c.status = pipeline.StatusIdle
	c.progress = 0
	c.mu.Unlock()

	c.revoke(url)
	c.logger.Debug("Composer reset")
}

// Status returns the current status.
func (c *Composer) Status() pipeline.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Progress returns the progress of the current or last compose, 0 to 100.
func (c *Composer) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Artifact returns the last produced video, if any.
func (c *Composer) Artifact() (pipeline.VideoArtifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.artifact == nil {
		return pipeline.VideoArtifact{}, false
	}
	return *c.artifact, true
}

// begin moves the composer to running and returns the context for the run.
func (c *Composer) begin(ctx context.Context) (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == pipeline.StatusRunning {
		return nil, &BusyError{}
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.reset = false
	c.status = pipeline.StatusRunning
	c.progress = 0
	return runCtx, nil
}

func (c *Composer) run(ctx context.Context, req pipeline.ComposeRequest) (pipeline.VideoArtifact, error) {
	if err := c.EnsureReady(ctx); err != nil {
		return pipeline.VideoArtifact{}, err
	}
	engine := c.session.Engine()
	defer c.cleanup(context.WithoutCancel(ctx))

	images := req.Images
	if c.normalizer != nil {
		in := c.normalizeTemplate
		in.Images = images
		result, err := c.normalizer.Execute(ctx, in)
		if err != nil {
			return pipeline.VideoArtifact{}, &StagingError{Name: "normalize", Err: err}
		}
		images = result.Images
		if req.Effects.Size == "" {
			req.Effects.Size = fmt.Sprintf("%dx%d", result.Width, result.Height)
		}
		c.logger.Debug("Normalized %d images to %dx%d", len(images), result.Width, result.Height)
	}

	if err := c.StageInputs(ctx, images, req.Text); err != nil {
		return pipeline.VideoArtifact{}, err
	}
	if err := ctx.Err(); err != nil {
		return pipeline.VideoArtifact{}, err
	}

	args := BuildArgs(req)
	c.logger.Debug("Engine arguments: %v", args)

	unsubscribe := engine.OnProgress(c.progressHandler(req.ExpectedDuration()))
	code, err := engine.Exec(ctx, args)
	unsubscribe()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return pipeline.VideoArtifact{}, ctxErr
	}
	if err != nil || code != 0 {
		return pipeline.VideoArtifact{}, &TranscodeError{ExitCode: code, Err: err}
	}

	data, err := engine.ReadFile(ctx, OutputFile)
	if err != nil {
		return pipeline.VideoArtifact{}, &ReadBackError{Name: OutputFile, Err: err}
	}
	if len(data) == 0 {
		return pipeline.VideoArtifact{}, &ReadBackError{Name: OutputFile, Err: ErrEmptyOutput}
	}

	return pipeline.VideoArtifact{
		Data:     data,
		MIMEType: pipeline.MIMETypeMP4,
		Filename: req.DownloadName,
	}, nil
}

// finish settles the outcome of a run. runCtx must be the context returned by begin.
func (c *Composer) finish(runCtx context.Context, artifact pipeline.VideoArtifact, runErr error, start time.Time) (pipeline.VideoArtifact, error) {
	elapsed := time.Since(start)

	if runErr == nil && c.publisher != nil {
		url, err := c.publisher.Publish(artifact.Filename, artifact.MIMEType, artifact.Data)
		if err != nil {
			runErr = fmt.Errorf("publish artifact: %w", err)
		} else {
			artifact.URL = url
		}
	}

	c.mu.Lock()
	cancelled := runCtx.Err() != nil
	abandoned := c.reset
	c.reset = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	switch {
	case abandoned:
		previous := c.artifact
		c.artifact = nil
		c.status = pipeline.StatusIdle
		c.progress = 0
		c.mu.Unlock()

		c.revoke(artifact.URL)
		if previous != nil {
			c.revoke(previous.URL)
		}
		c.logger.Info("Compose abandoned by reset")
		c.recordOutcome(ports.OutcomeCancelled, elapsed)
		return pipeline.VideoArtifact{}, ErrAbandoned

	case cancelled:
		c.status = pipeline.StatusFailed
		c.mu.Unlock()

		c.revoke(artifact.URL)
		err := runErr
		if err == nil || !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			err = context.Cause(runCtx)
		}
		c.logger.Warn("Compose cancelled: %s", err)
		c.recordOutcome(ports.OutcomeCancelled, elapsed)
		return pipeline.VideoArtifact{}, fmt.Errorf("compose cancelled: %w", err)

	case runErr != nil:
		c.status = pipeline.StatusFailed
		c.mu.Unlock()

		c.logFailure(runErr)
		c.recordOutcome(ports.OutcomeFailed, elapsed)
		return pipeline.VideoArtifact{}, runErr
	}

	previous := c.artifact
	c.artifact = &artifact
	c.status = pipeline.StatusDone
	c.progress = 100
	cb := c.onProgress
	c.mu.Unlock()

	if previous != nil {
		c.revoke(previous.URL)
	}
	if cb != nil {
		cb(100)
	}
	if c.metrics != nil {
		c.metrics.Progress(100)
		c.metrics.ArtifactProduced(len(artifact.Data))
	}
	c.logger.Info("Video composed: %d bytes in %s", len(artifact.Data), elapsed.Round(time.Millisecond))
	c.recordOutcome(ports.OutcomeDone, elapsed)
	return artifact, nil
}

func (c *Composer) logFailure(err error) {
	var (
		initErr     *EngineInitError
		stagingErr  *StagingError
		transErr    *TranscodeError
		readBackErr *ReadBackError
	)
	switch {
	case errors.As(err, &readBackErr):
		c.logger.Error("Invariant violated: engine reported success but %s could not be read: %s", readBackErr.Name, readBackErr.Err)
	case errors.As(err, &initErr):
		c.logger.Error("Failed to load engine: %s", initErr.Err)
	case errors.As(err, &stagingErr):
		c.logger.Error("Failed to stage %s: %s", stagingErr.Name, stagingErr.Err)
	case errors.As(err, &transErr):
		c.logger.Error("Failed to transcode: %s", err)
	default:
		c.logger.Error("Compose failed: %s", err)
	}
}

// cleanup deletes every staged file and the output. Failures are logged only.
func (c *Composer) cleanup(ctx context.Context) {
	c.mu.Lock()
	names := append(c.staged, OutputFile)
	c.staged = nil
	c.mu.Unlock()

	engine := c.session.Engine()
	for _, name := range names {
		if err := engine.DeleteFile(ctx, name); err != nil {
			c.logger.Warn("Failed to delete %s: %s", name, err)
		}
	}
	c.logger.Debug("Removed %d engine files", len(names))
}

func (c *Composer) track(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.staged {
		if existing == name {
			return
		}
	}
	c.staged = append(c.staged, name)
}

func (c *Composer) progressHandler(expected time.Duration) ports.ProgressHandler {
	return func(ev ports.ProgressEvent) {
		percent := percentOf(ev, expected)

		c.mu.Lock()
		if c.status != pipeline.StatusRunning || percent <= c.progress {
			c.mu.Unlock()
			return
		}
		c.progress = percent
		cb := c.onProgress
		c.mu.Unlock()

		if c.metrics != nil {
			c.metrics.Progress(percent)
		}
		if cb != nil {
			cb(percent)
		}
	}
}

// percentOf converts an engine event to a percentage. The result stays
// below 100 while running; 100 is reserved for a finished compose.
func percentOf(ev ports.ProgressEvent, expected time.Duration) int {
	var ratio float64
	switch {
	case ev.Ratio >= 0:
		ratio = ev.Ratio
	case expected > 0:
		ratio = float64(ev.Elapsed) / float64(expected)
	default:
		return 0
	}

	percent := int(ratio * 100)
	if percent < 0 {
		return 0
	}
	if percent > 99 {
		return 99
	}
	return percent
}

func (c *Composer) revoke(url string) {
	if url != "" && c.publisher != nil {
		c.publisher.Revoke(url)
	}
}

func (c *Composer) recordOutcome(outcome string, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.ComposeFinished(outcome, elapsed)
	}
}

var _ pipeline.Stage[pipeline.ComposeRequest, pipeline.VideoArtifact] = (*Composer)(nil)
