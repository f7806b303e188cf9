package mocks

import (
	"fmt"
	"sync"

	"github.com/user/slideshow/pkg/ports"
)

// Publisher is a mock implementation of ports.Publisher.
// Published URLs have the form mock://artifact/<n>.
type Publisher struct {
	mu   sync.Mutex
	next int
	live map[string][]byte

	PublishFunc func(filename, mimeType string, data []byte) (string, error)

	// Recorded calls for verification
	Published []string
	Revoked   []string
}

// NewPublisher creates a new mock Publisher.
func NewPublisher() *Publisher {
	return &Publisher{live: make(map[string][]byte)}
}

func (m *Publisher) Publish(filename, mimeType string, data []byte) (string, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(filename, mimeType, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	url := fmt.Sprintf("mock://artifact/%d", m.next)
	m.live[url] = data
	m.Published = append(m.Published, url)
	return url, nil
}

func (m *Publisher) Revoke(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, url)
	m.Revoked = append(m.Revoked, url)
}

// Live returns the number of published, unrevoked URLs.
func (m *Publisher) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

var _ ports.Publisher = (*Publisher)(nil)
