package sampler

import (
	"errors"
	"testing"

	"codewatch/pkg/window"
)

type fakeSource struct {
	app   string
	err   error
	calls int
}

func (f *fakeSource) FrontmostApp() (string, error) {
	f.calls++
	return f.app, f.err
}

func (f *fakeSource) IsAvailable() bool { return true }
func (f *fakeSource) Name() string      { return "fake" }
func (f *fakeSource) Close() error      { return nil }

func TestSample(t *testing.T) {
	var _ window.Source = (*fakeSource)(nil)

	tests := []struct {
		name    string
		app     string
		err     error
		wantApp string
	}{
		{name: "normal app name", app: "Visual Studio Code", wantApp: "Visual Studio Code"},
		{name: "whitespace trimmed", app: "  Firefox\n", wantApp: "Firefox"},
		{name: "query error", app: "", err: errors.New("no display"), wantApp: window.UnknownApp},
		{name: "empty output", app: "", wantApp: window.UnknownApp},
		{name: "whitespace-only output", app: "   \n", wantApp: window.UnknownApp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{app: tt.app, err: tt.err}
			s := New(src)

			result := s.Sample()
			if result.AppName != tt.wantApp {
				t.Errorf("Sample().AppName = %q, want %q", result.AppName, tt.wantApp)
			}
			if result.Timestamp.IsZero() {
				t.Error("Sample().Timestamp is zero")
			}
			if src.calls != 1 {
				t.Errorf("source queried %d times, want exactly 1", src.calls)
			}
		})
	}
}

type lockableSource struct {
	fakeSource
	locked bool
}

func (l *lockableSource) IsScreenLocked() bool { return l.locked }

func TestSampleLockedSessionIsUnknown(t *testing.T) {
	src := &lockableSource{fakeSource: fakeSource{app: "Code"}, locked: true}
	s := New(src)

	result := s.Sample()
	if result.AppName != window.UnknownApp {
		t.Errorf("Sample().AppName = %q while locked, want %q", result.AppName, window.UnknownApp)
	}
	if src.calls != 0 {
		t.Errorf("source queried %d times while locked, want 0", src.calls)
	}

	src.locked = false
	if result := s.Sample(); result.AppName != "Code" {
		t.Errorf("Sample().AppName = %q after unlock, want Code", result.AppName)
	}
}

func TestSampleNeverRetries(t *testing.T) {
	src := &fakeSource{err: errors.New("transient failure")}
	s := New(src)

	for i := 0; i < 3; i++ {
		s.Sample()
	}

	if src.calls != 3 {
		t.Errorf("source queried %d times over 3 samples, want 3", src.calls)
	}
}
