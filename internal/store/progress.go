package store

import (
	"context"
	"sync"
	"time"
)

// Progress is one status write for a generation run, polled externally.
type Progress struct {
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	CurrentStep string    `json:"current_step"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProgressSink accepts progress writes keyed by run id.
type ProgressSink interface {
	Update(ctx context.Context, runID string, p Progress) error
	Get(ctx context.Context, runID string) (Progress, bool)
}

// MemoryProgress keeps the latest progress per run and fans updates out to
// watchers. Slow watchers drop updates rather than blocking the pipeline.
type MemoryProgress struct {
	mu       sync.RWMutex
	latest   map[string]Progress
	watchers map[string][]chan Progress
}

func NewMemoryProgress() *MemoryProgress {
	return &MemoryProgress{
		latest:   make(map[string]Progress),
		watchers: make(map[string][]chan Progress),
	}
}

func (m *MemoryProgress) Update(ctx context.Context, runID string, p Progress) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest[runID] = p
	// Sends stay under the lock: cancel closes a watcher channel only
	// after removing it under the same lock, so a send can never hit a
	// closed channel. Sends are non-blocking, so holding mu is cheap.
	for _, ch := range m.watchers[runID] {
		select {
		case ch <- p:
		default:
		}
	}
	return nil
}

func (m *MemoryProgress) Get(ctx context.Context, runID string) (Progress, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.latest[runID]
	return p, ok
}

// Watch registers a watcher channel for a run. The returned cancel func
// unregisters and closes it.
func (m *MemoryProgress) Watch(runID string) (<-chan Progress, func()) {
	ch := make(chan Progress, 16)
	m.mu.Lock()
	m.watchers[runID] = append(m.watchers[runID], ch)
	m.mu.Unlock()
	cancel := func() {
		m.mu.Lock()
		ws := m.watchers[runID]
		for i, w := range ws {
			if w == ch {
				m.watchers[runID] = append(ws[:i], ws[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}
