package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts the work the application has done.
type Metrics struct {
	streams       atomic.Uint64
	streamErrors  atomic.Uint64
	chunks        atomic.Uint64
	bytes         atomic.Uint64
	streamTotalNs atomic.Int64

	transcripts atomic.Uint64
	saves       atomic.Uint64
	saveErrors  atomic.Uint64
	reloads     atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordStream records one finished stream.
func (m *Metrics) RecordStream(chunks, bytes int, d time.Duration, err error) {
	m.streams.Add(1)
	m.chunks.Add(uint64(chunks))
	m.bytes.Add(uint64(bytes))
	m.streamTotalNs.Add(d.Nanoseconds())
	if err != nil {
		m.streamErrors.Add(1)
	}
}

// RecordTranscripts records transcripts applied by a speech session.
func (m *Metrics) RecordTranscripts(n int) {
	m.transcripts.Add(uint64(n))
}

// RecordSave records an autosave.
func (m *Metrics) RecordSave() {
	m.saves.Add(1)
}

// RecordSaveError records a failed autosave.
func (m *Metrics) RecordSaveError() {
	m.saveErrors.Add(1)
}

// RecordReload records a configuration reload.
func (m *Metrics) RecordReload() {
	m.reloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	streams := m.streams.Load()

	var avgStream time.Duration
	if streams > 0 {
		avgStream = time.Duration(m.streamTotalNs.Load() / int64(streams))
	}

	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		Streams:      streams,
		StreamErrors: m.streamErrors.Load(),
		Chunks:       m.chunks.Load(),
		Bytes:        m.bytes.Load(),
		AvgStream:    avgStream,
		Transcripts:  m.transcripts.Load(),
		Saves:        m.saves.Load(),
		SaveErrors:   m.saveErrors.Load(),
		Reloads:      m.reloads.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	Streams      uint64
	StreamErrors uint64
	Chunks       uint64
	Bytes        uint64
	AvgStream    time.Duration
	Transcripts  uint64
	Saves        uint64
	SaveErrors   uint64
	Reloads      uint64
}
