package monitor

import (
	"testing"
	"time"
)

var testPatterns = []string{"Code", "Vim", "PyCharm"}

// tickAt drives the tracker with samples spaced exactly one interval
// apart, mirroring the configured cadence.
func tickAt(t *Tracker, base time.Time, interval time.Duration, n int, app string) Transition {
	return t.Tick(app, base.Add(time.Duration(n)*interval))
}

func TestIsCoding(t *testing.T) {
	tr := NewTracker(testPatterns, time.Second)

	tests := []struct {
		app  string
		want bool
	}{
		{"Code", true},
		{"Visual Studio Code", true},
		{"code - insiders", true},
		{"VIM", true},
		{"Neovim", true},
		{"PyCharm Professional", true},
		{"Finder", false},
		{"Safari", false},
		{"Unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tr.IsCoding(tt.app); got != tt.want {
			t.Errorf("IsCoding(%q) = %v, want %v", tt.app, got, tt.want)
		}
	}
}

func TestIsCodingUnknownMatchesOnlyLiteralPattern(t *testing.T) {
	tr := NewTracker(testPatterns, time.Second)
	if tr.IsCoding("Unknown") {
		t.Error("IsCoding(Unknown) = true under default-style patterns, want false")
	}

	literal := NewTracker([]string{"unknown"}, time.Second)
	if !literal.IsCoding("Unknown") {
		t.Error("IsCoding(Unknown) = false with a literal 'unknown' pattern, want true")
	}
}

func TestContinuousTimeAccumulatesPerTick(t *testing.T) {
	interval := time.Second
	tr := NewTracker(testPatterns, interval)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	const n = 10
	for i := 0; i < n; i++ {
		tickAt(tr, base, interval, i, "Code")
	}

	if got := tr.State().ContinuousCoding; got != n*interval {
		t.Errorf("ContinuousCoding = %v after %d coding ticks, want %v", got, n, n*interval)
	}
}

func TestSessionStartAndEnd(t *testing.T) {
	interval := time.Second
	tr := NewTracker(testPatterns, interval)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := tickAt(tr, base, interval, 0, "Code")
	if !first.SessionStarted {
		t.Error("first coding tick did not report SessionStarted")
	}

	const m = 5
	for i := 1; i < m; i++ {
		tickAt(tr, base, interval, i, "Code")
	}

	ended := tickAt(tr, base, interval, m, "Finder")
	if !ended.SessionEnded {
		t.Fatal("non-coding tick did not report SessionEnded")
	}
	if ended.EndedDuration != m*interval {
		t.Errorf("EndedDuration = %v, want %v", ended.EndedDuration, m*interval)
	}

	st := tr.State()
	if st.ContinuousCoding != 0 {
		t.Errorf("ContinuousCoding = %v after session end, want 0", st.ContinuousCoding)
	}
	if st.TotalCoding != m*interval {
		t.Errorf("TotalCoding = %v, want %v", st.TotalCoding, m*interval)
	}
	if !st.AppStartTime.IsZero() {
		t.Error("AppStartTime not cleared after session end")
	}
	if st.CurrentApp != "Finder" {
		t.Errorf("CurrentApp = %q, want Finder", st.CurrentApp)
	}
}

func TestCodingAppSwitchKeepsContinuity(t *testing.T) {
	interval := time.Second
	tr := NewTracker(testPatterns, interval)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		tickAt(tr, base, interval, i, "Code")
	}

	sw := tickAt(tr, base, interval, 4, "PyCharm")
	if !sw.AppChanged {
		t.Error("switch between coding apps did not report AppChanged")
	}
	if sw.SessionStarted || sw.SessionEnded {
		t.Error("switch between coding apps started or ended a session")
	}

	st := tr.State()
	if st.ContinuousCoding != 5*interval {
		t.Errorf("ContinuousCoding = %v after coding-to-coding switch, want %v", st.ContinuousCoding, 5*interval)
	}
	// Prior app's elapsed time flushed into the ledger on the switch.
	if st.TotalCoding != 4*interval {
		t.Errorf("TotalCoding = %v after switch, want %v flushed", st.TotalCoding, 4*interval)
	}
	if st.CurrentApp != "PyCharm" {
		t.Errorf("CurrentApp = %q, want PyCharm", st.CurrentApp)
	}
}

func TestCodeFinderCodeScenario(t *testing.T) {
	interval := time.Second
	tr := NewTracker(testPatterns, interval)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tickAt(tr, base, interval, 0, "Code")
	ended := tickAt(tr, base, interval, 1, "Finder")
	restarted := tickAt(tr, base, interval, 2, "Code")

	if !ended.SessionEnded {
		t.Error("Finder tick did not end the session")
	}
	if !restarted.SessionStarted {
		t.Error("second Code tick did not start a new session")
	}

	st := tr.State()
	if st.ContinuousCoding != interval {
		t.Errorf("ContinuousCoding = %v after restart, want %v", st.ContinuousCoding, interval)
	}
	if st.TotalCoding != interval {
		t.Errorf("TotalCoding = %v, want %v from the first session", st.TotalCoding, interval)
	}
}

func TestTotalIsMonotonic(t *testing.T) {
	interval := time.Second
	tr := NewTracker(testPatterns, interval)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	apps := []string{"Code", "Code", "PyCharm", "Finder", "Vim", "Safari", "Unknown", "Code", "Finder"}
	var prev time.Duration
	for i, app := range apps {
		tickAt(tr, base, interval, i, app)
		if total := tr.State().TotalCoding; total < prev {
			t.Fatalf("TotalCoding decreased from %v to %v at tick %d (%s)", prev, total, i, app)
		} else {
			prev = total
		}
	}
}

func TestContinuousImpliesCodingCurrentApp(t *testing.T) {
	interval := time.Second
	tr := NewTracker(testPatterns, interval)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	apps := []string{"Finder", "Code", "Vim", "Unknown", "Unknown", "PyCharm", "Safari"}
	for i, app := range apps {
		tickAt(tr, base, interval, i, app)
		st := tr.State()
		if st.ContinuousCoding > 0 {
			if st.AppStartTime.IsZero() {
				t.Errorf("tick %d (%s): ContinuousCoding > 0 with zero AppStartTime", i, app)
			}
			if !tr.IsCoding(st.CurrentApp) {
				t.Errorf("tick %d (%s): ContinuousCoding > 0 with non-coding CurrentApp %q", i, app, st.CurrentApp)
			}
		}
	}
}

func TestRepeatedNonCodingTicksAreNoops(t *testing.T) {
	interval := time.Second
	tr := NewTracker(testPatterns, interval)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		trn := tickAt(tr, base, interval, i, "Finder")
		if trn.SessionStarted || trn.SessionEnded {
			t.Fatalf("tick %d on non-coding app reported a session event", i)
		}
	}

	st := tr.State()
	if st.ContinuousCoding != 0 || st.TotalCoding != 0 {
		t.Errorf("state = %+v after only non-coding ticks, want zero counters", st)
	}
}

func TestThresholdScenario(t *testing.T) {
	// threshold = 3s, interval = 1s, samples Code,Code,Code,Code at t=0..3
	interval := time.Second
	threshold := 3 * time.Second
	tr := NewTracker(testPatterns, interval)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	crossings := 0
	active := false
	for i := 0; i < 4; i++ {
		tickAt(tr, base, interval, i, "Code")
		if tr.State().ContinuousCoding >= threshold && !active {
			crossings++
			active = true
		}
	}

	if got := tr.State().ContinuousCoding; got < threshold {
		t.Errorf("ContinuousCoding = %v, want >= %v", got, threshold)
	}
	if crossings != 1 {
		t.Errorf("threshold crossed %d times, want exactly 1", crossings)
	}
}
