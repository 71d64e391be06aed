package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	RunsStarted        int64
	RunsCompleted      int64
	RunsNothingToDo    int64
	RunsFailed         int64
	DocumentsGenerated int64
	DocumentsPublished int64
	PublishFailures    int64
	PlaceholdersUsed   int64

	// Timings
	LastRunDuration    time.Duration
	AverageRunDuration time.Duration
	totalRunDuration   time.Duration
	runCount           int64

	// Status
	LastRunTime   time.Time
	LastKeyword   string
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) RunStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsStarted++
}

func (m *Metrics) RunCompleted(keyword string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsCompleted++
	m.LastKeyword = keyword
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) RunNothingToDo() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsNothingToDo++
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) RunFailed(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsFailed++
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) DocumentGenerated(placeholder bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DocumentsGenerated++
	if placeholder {
		m.PlaceholdersUsed++
	}
}

func (m *Metrics) DocumentPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DocumentsPublished++
}

func (m *Metrics) PublishFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishFailures++
}

func (m *Metrics) RecordRunDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRunDuration = duration
	m.totalRunDuration += duration
	m.runCount++

	if m.runCount > 0 {
		m.AverageRunDuration = m.totalRunDuration / time.Duration(m.runCount)
	}
}

func (m *Metrics) GetStats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]any{
		"runs_started":            m.RunsStarted,
		"runs_completed":          m.RunsCompleted,
		"runs_nothing_to_do":      m.RunsNothingToDo,
		"runs_failed":             m.RunsFailed,
		"documents_generated":     m.DocumentsGenerated,
		"documents_published":     m.DocumentsPublished,
		"publish_failures":        m.PublishFailures,
		"placeholders_used":       m.PlaceholdersUsed,
		"last_run_duration_ms":    m.LastRunDuration.Milliseconds(),
		"average_run_duration_ms": m.AverageRunDuration.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_keyword":            m.LastKeyword,
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
