// Package ffmpegengine runs the ffmpeg binary as a transcoding engine. Files
// are exchanged through a private scratch directory that acts as the
// engine's filesystem; commands run with that directory as working directory.
package ffmpegengine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/user/slideshow/pkg/adapters/osfilesystem"
	"github.com/user/slideshow/pkg/ports"
)

// Arguments prepended to every Exec. Progress goes to stdout as key=value
// blocks, diagnostics to stderr.
var baseArgs = []string{"-hide_banner", "-nostdin", "-y", "-progress", "pipe:1", "-nostats"}

const stderrTailSize = 4096

// Options configures an Engine.
type Options struct {
	FFmpegPath string // explicit binary; empty searches FFMPEG_PATH, PATH and common locations
	ScratchDir string // parent of the working directory; empty uses the system temp dir
}

// Engine implements ports.Engine on top of the ffmpeg binary.
type Engine struct {
	opts   Options
	logger ports.Logger

	mu       sync.Mutex
	binary   string
	version  string
	fs       *osfilesystem.FileSystem
	handlers map[int]ports.ProgressHandler
	nextID   int
}

// New creates an unloaded Engine.
func New(opts Options, logger ports.Logger) *Engine {
	return &Engine{
		opts:     opts,
		logger:   logger.WithComponent("ffmpeg"),
		handlers: make(map[int]ports.ProgressHandler),
	}
}

// Load locates ffmpeg, checks that it runs and creates the working directory.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fs != nil {
		return nil
	}

	binary, err := FindFFmpeg(e.opts.FFmpegPath)
	if err != nil {
		return err
	}

	out, err := exec.CommandContext(ctx, binary, "-hide_banner", "-version").Output()
	if err != nil {
		return fmt.Errorf("run %s -version: %w", binary, err)
	}
	version := firstLine(string(out))

	dir, err := os.MkdirTemp(e.opts.ScratchDir, "slideshow-*")
	if err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}

	e.binary = binary
	e.version = version
	e.fs = osfilesystem.NewRooted(dir)
	e.logger.Debug("Using %s (%s)", binary, version)
	e.logger.Debug("Working directory: %s", dir)
	return nil
}

// Version returns the first line of "ffmpeg -version" once loaded.
func (e *Engine) Version() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Dir returns the working directory, or "" before Load.
func (e *Engine) Dir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fs == nil {
		return ""
	}
	return e.fs.Root()
}

// WriteFile stores data under name in the working directory.
func (e *Engine) WriteFile(ctx context.Context, name string, data []byte) error {
	fs, err := e.filesystem(name)
	if err != nil {
		return err
	}
	return fs.WriteFile(name, data)
}

// ReadFile returns the contents of name in the working directory.
func (e *Engine) ReadFile(ctx context.Context, name string) ([]byte, error) {
	fs, err := e.filesystem(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(name)
}

// DeleteFile removes name from the working directory. A missing file is not an error.
func (e *Engine) DeleteFile(ctx context.Context, name string) error {
	fs, err := e.filesystem(name)
	if err != nil {
		return err
	}
	return fs.Remove(name)
}

// Exec runs ffmpeg with args in the working directory. A non-zero exit
// returns the exit code together with an error carrying the end of stderr.
// Cancelling ctx kills the process.
func (e *Engine) Exec(ctx context.Context, args []string) (int, error) {
	e.mu.Lock()
	if e.fs == nil {
		e.mu.Unlock()
		return -1, ErrNotLoaded
	}
	binary, dir := e.binary, e.fs.Root()
	e.mu.Unlock()

	full := append(append([]string(nil), baseArgs...), args...)
	cmd := exec.CommandContext(ctx, binary, full...)
	cmd.Dir = dir

	stderr := &tailBuffer{max: stderrTailSize}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("stdout pipe: %w", err)
	}

	e.logger.Debug("Running ffmpeg %s", strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start ffmpeg: %w", err)
	}

	var parser progressParser
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if ev, ok := parser.feed(scanner.Text()); ok {
			e.emit(ev)
		}
	}

	err = cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			e.logger.Debug("ffmpeg exited with code %d", code)
			return code, fmt.Errorf("ffmpeg exited with code %d: %s", code, stderr.String())
		}
		return -1, fmt.Errorf("wait for ffmpeg: %w", err)
	}
	return 0, nil
}

// OnProgress registers handler for progress events of subsequent Exec calls.
func (e *Engine) OnProgress(handler ports.ProgressHandler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.handlers[id] = handler

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
	}
}

// Terminate removes the working directory. The engine can be loaded again.
func (e *Engine) Terminate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fs == nil {
		return nil
	}
	dir := e.fs.Root()
	e.fs = nil
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove working directory: %w", err)
	}
	e.logger.Debug("Removed working directory %s", dir)
	return nil
}

func (e *Engine) filesystem(name string) (*osfilesystem.FileSystem, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fs == nil {
		return nil, ErrNotLoaded
	}
	return e.fs, nil
}

func (e *Engine) emit(ev ports.ProgressEvent) {
	e.mu.Lock()
	ids := make([]int, 0, len(e.handlers))
	for id := range e.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]ports.ProgressHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, e.handlers[id])
	}
	e.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// checkName accepts only plain file names inside the working directory.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

var _ ports.Engine = (*Engine)(nil)
