package sampler

import (
	"log"
	"strings"
	"time"

	"codewatch/pkg/window"
)

// SampleResult is a single observation of the frontmost application.
// Produced once per sampling tick, never persisted.
type SampleResult struct {
	AppName   string
	Timestamp time.Time
}

// Sampler wraps a window.Source and degrades every failure mode to the
// UnknownApp sentinel. Sample never returns an error; a failed query
// simply yields a non-coding observation.
type Sampler struct {
	source window.Source
}

// screenLocker is implemented by sources that can tell whether the
// desktop session is locked.
type screenLocker interface {
	IsScreenLocked() bool
}

func New(source window.Source) *Sampler {
	return &Sampler{source: source}
}

// Sample invokes the underlying source exactly once. Query errors and
// empty output both map to window.UnknownApp, as does a locked session:
// nobody is coding at a lock screen, whatever window holds focus
// behind it.
func (s *Sampler) Sample() SampleResult {
	now := time.Now()

	if locker, ok := s.source.(screenLocker); ok && locker.IsScreenLocked() {
		return SampleResult{AppName: window.UnknownApp, Timestamp: now}
	}

	appName, err := s.source.FrontmostApp()
	if err != nil {
		log.Printf("Failed to query frontmost app via %s: %v", s.source.Name(), err)
		return SampleResult{AppName: window.UnknownApp, Timestamp: now}
	}

	appName = strings.TrimSpace(appName)
	if appName == "" {
		return SampleResult{AppName: window.UnknownApp, Timestamp: now}
	}

	return SampleResult{AppName: appName, Timestamp: now}
}

// SourceName reports which source the sampler is reading from.
func (s *Sampler) SourceName() string {
	return s.source.Name()
}

// Close releases the underlying source.
func (s *Sampler) Close() error {
	return s.source.Close()
}
