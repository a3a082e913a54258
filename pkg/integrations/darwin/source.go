package darwin

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

const frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`

// Source implements window.Source for macOS using osascript. The
// application process name is more reliable than the window title, so
// only the process name is queried.
type Source struct {
	hasOsascript bool
}

// NewSource creates a new osascript-backed source
func NewSource() *Source {
	s := &Source{}
	_, err := exec.LookPath("osascript")
	s.hasOsascript = err == nil
	return s
}

// IsAvailable checks if osascript detection is available
func (s *Source) IsAvailable() bool {
	return runtime.GOOS == "darwin" && s.hasOsascript
}

// Name returns "osascript"
func (s *Source) Name() string {
	return "osascript"
}

// FrontmostApp asks System Events for the frontmost application process
func (s *Source) FrontmostApp() (string, error) {
	if !s.hasOsascript {
		return "", fmt.Errorf("osascript not found in PATH")
	}

	cmd := exec.Command("osascript", "-e", frontmostScript)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to query frontmost application: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// Close cleans up resources
func (s *Source) Close() error {
	return nil
}
