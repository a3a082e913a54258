package window

// UnknownApp is the sentinel substituted for an application name when
// the frontmost-app query fails. It never matches the default coding
// patterns, so a failed sample counts as a non-coding tick.
const UnknownApp = "Unknown"

// Source is the interface that all frontmost-app query implementations
// must satisfy. A Source performs exactly one external query per call
// and never retries; degrading a failure to UnknownApp is the caller's
// concern.
type Source interface {
	// FrontmostApp returns the name of the application that currently
	// owns the focused window.
	FrontmostApp() (string, error)

	// IsAvailable checks if this source can run on the current system
	IsAvailable() bool

	// Name returns a short identifier for the source ("osascript",
	// "x11", "gnome-shell")
	Name() string

	// Close cleans up any resources used by the source
	Close() error
}
