package monitor

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"codewatch/internal/config"
	"codewatch/internal/database"
	"codewatch/internal/focus"
	"codewatch/internal/models"
	"codewatch/pkg/sampler"
	"codewatch/pkg/timefmt"
)

// Service runs the polling loop: sample, advance the tracker, engage
// focus mode on threshold. Strictly sequential; only Snapshot crosses
// goroutine boundaries and is guarded by the mutex.
type Service struct {
	config   *config.Config
	sampler  *sampler.Sampler
	focus    *focus.Controller
	repo     *database.Repository // nil when the journal is disabled
	stopChan chan struct{}
	stopOnce sync.Once

	mu        sync.Mutex
	running   bool
	tracker   *Tracker
	statusOut io.Writer
}

// Snapshot is a read-only view of the live tracker state for the status
// command and the web API.
type Snapshot struct {
	App            string `json:"app"`
	Coding         bool   `json:"coding"`
	SessionSeconds int64  `json:"session_seconds"`
	Session        string `json:"session"`
	TotalSeconds   int64  `json:"total_seconds"`
	Total          string `json:"total"`
	FocusActive    bool   `json:"focus_active"`
}

func NewService(cfg *config.Config, smp *sampler.Sampler, fc *focus.Controller, repo *database.Repository) *Service {
	return &Service{
		config:   cfg,
		sampler:  smp,
		focus:    fc,
		repo:     repo,
		tracker:  NewTracker(cfg.Tracker.CodingApps, cfg.Tracker.CheckInterval),
		stopChan: make(chan struct{}),
	}
}

// SetStatusWriter enables the once-per-tick console status line.
// Intended for foreground runs; daemons leave it unset.
func (s *Service) SetStatusWriter(w io.Writer) {
	s.mu.Lock()
	s.statusOut = w
	s.mu.Unlock()
}

// Start runs the polling loop until the context is cancelled or Stop is
// called. On termination the accumulated total is logged. No sampling
// or remote failure terminates the loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("monitor is already running")
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("Starting monitor with %v check interval", s.config.Tracker.CheckInterval)
	log.Printf("Deep mode threshold: %v", s.config.Tracker.DeepThreshold)

	ticker := time.NewTicker(s.config.Tracker.CheckInterval)
	defer ticker.Stop()

	s.observe(s.sampler.Sample())

	for {
		select {
		case <-ctx.Done():
			s.setRunning(false)
			s.logTotal()
			return ctx.Err()

		case <-s.stopChan:
			s.setRunning(false)
			s.logTotal()
			return nil

		case <-ticker.C:
			s.observe(s.sampler.Sample())
		}
	}
}

// Stop terminates the polling loop. Safe to call from any goroutine,
// any number of times.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

// observe handles one tick. Sampling failures already degraded to the
// Unknown sentinel inside the sampler, so there is nothing to fail here.
func (s *Service) observe(sample sampler.SampleResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr := s.tracker.Tick(sample.AppName, sample.Timestamp)
	st := s.tracker.State()

	if tr.SessionStarted {
		log.Printf("Started coding session in %s", sample.AppName)
	}
	if tr.SessionEnded {
		log.Printf("Coding session ended. Duration: %s", timefmt.HMS(tr.EndedDuration))
	}

	s.focus.MaybeExpire(sample.Timestamp)

	if st.ContinuousCoding >= s.config.Tracker.DeepThreshold && !s.focus.Active() {
		log.Printf("Reached deep mode threshold: %s", timefmt.HMS(st.ContinuousCoding))
		engaged := s.focus.Engage(sample.Timestamp)
		if attempt := s.focus.LastAttempt(); attempt.Invoked {
			s.journalAttempt(attempt, st.ContinuousCoding)
		}
		if !engaged {
			s.journalError(fmt.Errorf("failed to enable deep coding mode"))
		}
	}

	s.printStatusLocked(st)
}

func (s *Service) printStatusLocked(st State) {
	if s.statusOut == nil {
		return
	}

	app := st.CurrentApp
	if runes := []rune(app); len(runes) > 25 {
		app = string(runes[:25])
	}
	coding := "No"
	if st.ContinuousCoding > 0 {
		coding = "Yes"
	}
	deepMode := "Inactive"
	if s.focus.Active() {
		deepMode = "Active"
	}

	fmt.Fprintf(s.statusOut, "\rApp: %-25s | Coding: %s | Session: %s | Total: %s | Deep Mode: %s%s",
		app, coding, timefmt.HMS(st.ContinuousCoding), timefmt.HMS(st.TotalCoding), deepMode, "          ")
}

// Snapshot returns the current tracker and focus state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.tracker.State()
	return Snapshot{
		App:            st.CurrentApp,
		Coding:         st.ContinuousCoding > 0,
		SessionSeconds: int64(st.ContinuousCoding / time.Second),
		Session:        timefmt.HMS(st.ContinuousCoding),
		TotalSeconds:   int64(st.TotalCoding / time.Second),
		Total:          timefmt.HMS(st.TotalCoding),
		FocusActive:    s.focus.Active(),
	}
}

func (s *Service) logTotal() {
	s.mu.Lock()
	total := s.tracker.State().TotalCoding
	s.mu.Unlock()
	log.Printf("Monitoring stopped. Total coding time: %s", timefmt.HMS(total))
}

func (s *Service) journalAttempt(attempt focus.Attempt, continuous time.Duration) {
	if s.repo == nil {
		return
	}

	record := &models.EngageAttempt{
		Timestamp:         attempt.Timestamp,
		DNDOk:             attempt.DNDOk,
		StatusOk:          attempt.StatusOk,
		Engaged:           attempt.Engaged,
		ContinuousSeconds: int64(continuous / time.Second),
	}
	if err := s.repo.CreateEngageAttempt(record); err != nil {
		log.Printf("Failed to journal engage attempt: %v", err)
	}
}

func (s *Service) journalError(err error) {
	log.Printf("Warning: %v", err)

	if s.repo == nil {
		return
	}

	record := &models.ErrorLog{
		Timestamp: time.Now(),
		ErrorMsg:  err.Error(),
	}
	if dbErr := s.repo.CreateErrorLog(record); dbErr != nil {
		log.Printf("Failed to journal error: %v (original error: %v)", dbErr, err)
	}
}
