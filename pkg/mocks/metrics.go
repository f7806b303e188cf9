package mocks

import (
	"sync"
	"time"

	"github.com/user/slideshow/pkg/ports"
)

// Metrics is a mock implementation of ports.Metrics that records every call.
type Metrics struct {
	mu sync.Mutex

	Started   int
	Outcomes  []string
	Artifacts []int
	Percents  []int
}

func (m *Metrics) ComposeStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started++
}

func (m *Metrics) ComposeFinished(outcome string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes = append(m.Outcomes, outcome)
}

func (m *Metrics) ArtifactProduced(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Artifacts = append(m.Artifacts, bytes)
}

func (m *Metrics) Progress(percent int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Percents = append(m.Percents, percent)
}

var _ ports.Metrics = (*Metrics)(nil)
