// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/user/slideshow/pkg/ports"
)

// FakeMP4 is the payload the default Exec writes to the output file.
var FakeMP4 = []byte{0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}

// Engine is an in-memory implementation of ports.Engine.
// By default Exec succeeds, emits progress events and writes FakeMP4 to the
// last argument.
type Engine struct {
	mu       sync.Mutex
	files    map[string][]byte
	handlers map[int]ports.ProgressHandler
	nextID   int
	loaded   bool

	LoadFunc       func(ctx context.Context) error
	WriteFileFunc  func(name string, data []byte) error
	ReadFileFunc   func(name string) ([]byte, error)
	DeleteFileFunc func(name string) error
	ExecFunc       func(ctx context.Context, args []string) (int, error)

	// ProgressEvents are emitted by the default Exec, in order.
	ProgressEvents []ports.ProgressEvent

	// Recorded calls for verification
	LoadCalls      int
	WriteCalls     []string
	DeleteCalls    []string
	ExecCalls      [][]string
	ReadCalls      []string
	TerminateCalls int
}

// NewEngine creates a new mock Engine.
func NewEngine() *Engine {
	return &Engine{
		files:    make(map[string][]byte),
		handlers: make(map[int]ports.ProgressHandler),
		ProgressEvents: []ports.ProgressEvent{
			{Ratio: 0.25, Elapsed: time.Second},
			{Ratio: 0.5, Elapsed: 2 * time.Second},
			{Ratio: 1, Elapsed: 4 * time.Second},
		},
	}
}

func (m *Engine) Load(ctx context.Context) error {
	m.mu.Lock()
	m.LoadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		if err := m.LoadFunc(ctx); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.loaded = true
	m.mu.Unlock()
	return nil
}

func (m *Engine) WriteFile(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	m.WriteCalls = append(m.WriteCalls, name)
	m.mu.Unlock()

	if m.WriteFileFunc != nil {
		if err := m.WriteFileFunc(name, data); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return nil
}

func (m *Engine) ReadFile(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	m.ReadCalls = append(m.ReadCalls, name)
	m.mu.Unlock()

	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.files[name]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

func (m *Engine) DeleteFile(ctx context.Context, name string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, name)
	m.mu.Unlock()

	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	return nil
}

func (m *Engine) Exec(ctx context.Context, args []string) (int, error) {
	m.mu.Lock()
	m.ExecCalls = append(m.ExecCalls, append([]string(nil), args...))
	m.mu.Unlock()

	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, args)
	}

	for _, ev := range m.ProgressEvents {
		m.Emit(ev)
	}

	if len(args) > 0 {
		m.mu.Lock()
		m.files[args[len(args)-1]] = append([]byte(nil), FakeMP4...)
		m.mu.Unlock()
	}
	return 0, nil
}

func (m *Engine) OnProgress(handler ports.ProgressHandler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.handlers[id] = handler

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers, id)
	}
}

func (m *Engine) Terminate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TerminateCalls++
	m.loaded = false
	m.files = make(map[string][]byte)
	return nil
}

// Emit delivers ev to every registered progress handler.
func (m *Engine) Emit(ev ports.ProgressEvent) {
	m.mu.Lock()
	ids := make([]int, 0, len(m.handlers))
	for id := range m.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]ports.ProgressHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, m.handlers[id])
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// PutFile stores a file directly (for test setup).
func (m *Engine) PutFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
}

// GetFile returns the contents of a file (for test verification).
func (m *Engine) GetFile(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// FileNames returns the sorted names of all stored files (for test verification).
func (m *Engine) FileNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loaded reports whether Load has succeeded since the last Terminate.
func (m *Engine) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// HandlerCount returns the number of registered progress handlers.
func (m *Engine) HandlerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers)
}

var _ ports.Engine = (*Engine)(nil)
