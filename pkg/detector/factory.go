package detector

import (
	"fmt"
	"os"
	"runtime"

	"codewatch/pkg/integrations/darwin"
	"codewatch/pkg/integrations/gnome"
	"codewatch/pkg/integrations/x11"
	"codewatch/pkg/window"
)

// New picks the best frontmost-app source for the host: osascript on
// macOS, the shell Eval interface on GNOME Wayland, then a direct X11
// connection.
func New() (window.Source, error) {
	if runtime.GOOS == "darwin" {
		src := darwin.NewSource()
		if src.IsAvailable() {
			return src, nil
		}
	}

	if DetectDisplayServer() == "wayland" {
		if src, err := gnome.NewSource(); err == nil {
			if src.IsAvailable() {
				return src, nil
			}
			src.Close()
		}
	}

	if os.Getenv("DISPLAY") != "" {
		if src, err := x11.NewSource(); err == nil {
			return src, nil
		}
	}

	return nil, fmt.Errorf("no frontmost-app source available on this system")
}

// Noop returns a source whose queries always fail, degrading every
// sample to the Unknown sentinel. Used when no real source is available
// so the monitor can keep running.
func Noop() window.Source {
	return noopSource{}
}

type noopSource struct{}

func (noopSource) FrontmostApp() (string, error) {
	return "", fmt.Errorf("no frontmost-app source available")
}

func (noopSource) IsAvailable() bool { return false }
func (noopSource) Name() string      { return "noop" }
func (noopSource) Close() error      { return nil }

func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
