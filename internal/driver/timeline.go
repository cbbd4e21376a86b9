package driver

import (
	"sync"
	"time"

	"github.com/cxd309/motion-engine/internal/condition"
	"github.com/cxd309/motion-engine/internal/engine"
)

// TimelineSensors replays a recorded sensor timeline against wall time. The
// clock starts on the first Read.
type TimelineSensors struct {
	timeline []engine.SensorSample
	now      func() time.Time

	mu    sync.Mutex
	start time.Time
}

// NewTimelineSensors replays timeline, which must be sorted by time.
func NewTimelineSensors(timeline []engine.SensorSample) *TimelineSensors {
	return &TimelineSensors{timeline: timeline, now: time.Now}
}

// Read returns the sample in effect at the elapsed wall time.
func (s *TimelineSensors) Read() condition.Input {
	s.mu.Lock()
	now := s.now()
	if s.start.IsZero() {
		s.start = now
	}
	elapsed := now.Sub(s.start)
	s.mu.Unlock()

	return engine.SampleAt(s.timeline, elapsed.Seconds())
}
