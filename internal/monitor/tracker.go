package monitor

import (
	"strings"
	"time"
)

// Classifier decides whether an application counts as coding. An app
// matches when any configured pattern is a case-insensitive substring
// of its name.
type Classifier struct {
	patterns []string
}

func NewClassifier(patterns []string) Classifier {
	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		lowered = append(lowered, strings.ToLower(p))
	}
	return Classifier{patterns: lowered}
}

func (c Classifier) IsCoding(appName string) bool {
	name := strings.ToLower(appName)
	for _, p := range c.patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// State is the tracker's session state. Invariants: ContinuousCoding > 0
// implies AppStartTime is set and CurrentApp classifies as coding;
// TotalCoding never decreases.
type State struct {
	CurrentApp       string
	AppStartTime     time.Time // zero when no coding app is being timed
	ContinuousCoding time.Duration
	TotalCoding      time.Duration
}

// Transition reports what happened on a tick, for logging and
// journaling by the caller.
type Transition struct {
	SessionStarted bool
	SessionEnded   bool
	AppChanged     bool
	EndedDuration  time.Duration // continuous time at the moment the session ended
}

// Tracker is the session state machine. It is pure in-memory state
// transformation: Tick never fails and performs no I/O.
//
// Each tick credits the configured interval, not measured wall-clock
// delta, so the configured cadence must match the actual polling
// cadence. The total ledger is flushed from AppStartTime at
// classification boundaries (app change while coding, or transition to
// non-coding) rather than recomputed.
type Tracker struct {
	classifier Classifier
	interval   time.Duration
	state      State
}

func NewTracker(patterns []string, interval time.Duration) *Tracker {
	return &Tracker{
		classifier: NewClassifier(patterns),
		interval:   interval,
	}
}

// IsCoding exposes the tracker's classification of an app name.
func (t *Tracker) IsCoding(appName string) bool {
	return t.classifier.IsCoding(appName)
}

// Tick advances the state machine with one sample. Continuity survives
// switches between coding apps; it resets only on a non-coding sample.
func (t *Tracker) Tick(appName string, now time.Time) Transition {
	var tr Transition
	st := &t.state

	if t.classifier.IsCoding(appName) {
		if st.CurrentApp != appName {
			tr.AppChanged = true
			// Flush the previous coding app's elapsed time into the
			// total before re-anchoring the start time.
			if !st.AppStartTime.IsZero() && t.classifier.IsCoding(st.CurrentApp) {
				st.TotalCoding += now.Sub(st.AppStartTime)
			}
			st.CurrentApp = appName
			st.AppStartTime = now

			if st.ContinuousCoding == 0 {
				tr.SessionStarted = true
			}
		}
		st.ContinuousCoding += t.interval
		return tr
	}

	if st.ContinuousCoding > 0 {
		tr.SessionEnded = true
		tr.EndedDuration = st.ContinuousCoding
		if !st.AppStartTime.IsZero() {
			st.TotalCoding += now.Sub(st.AppStartTime)
			st.AppStartTime = time.Time{}
		}
		st.ContinuousCoding = 0
	}
	st.CurrentApp = appName
	return tr
}

// State returns a copy of the current session state.
func (t *Tracker) State() State {
	return t.state
}
