// Package session owns the lifecycle of a transcoding engine instance.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/slideshow/pkg/ports"
)

// Session holds one engine and tracks whether it has been loaded.
// A Session is safe for concurrent use; the engine behind it is not.
type Session struct {
	engine ports.Engine
	logger ports.Logger

	mu    sync.Mutex
	ready bool
	loads int
}

// New creates an uninitialized session for engine.
func New(engine ports.Engine, logger ports.Logger) *Session {
	return &Session{
		engine: engine,
		logger: logger.WithComponent("session"),
	}
}

// Engine returns the engine owned by the session.
func (s *Session) Engine() ports.Engine {
	return s.engine
}

// Init loads the engine unless it is already loaded. A failed load leaves the
// session uninitialized so that a later Init can retry.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	s.loads++
	s.logger.Debug("Loading engine (attempt %d)", s.loads)
	if err := s.engine.Load(ctx); err != nil {
		return fmt.Errorf("load engine: %w", err)
	}

	s.ready = true
	s.logger.Debug("Engine loaded")
	return nil
}

// IsReady reports whether the engine has been loaded.
func (s *Session) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// LoadAttempts returns how many times Init has called the engine's Load.
func (s *Session) LoadAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// Dispose terminates the engine. The session can be initialized again afterwards.
func (s *Session) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil
	}
	s.ready = false

	if err := s.engine.Terminate(); err != nil {
		return fmt.Errorf("terminate engine: %w", err)
	}
	s.logger.Debug("Engine terminated")
	return nil
}
