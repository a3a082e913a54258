package gnome

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/godbus/dbus/v5"
)

// focusedWindowScript asks the shell for the focused window's class and
// title. Eval returns a JSON string or the literal "null".
const focusedWindowScript = `
	let fw = global.get_window_actors()
		.map(a => a.meta_window)
		.find(w => w.has_focus());
	if (!fw) {
		fw = global.display.get_focus_window();
	}
	if (fw) {
		JSON.stringify({
			wm_class: fw.get_wm_class() || '',
			title: fw.get_title() || ''
		});
	} else {
		'null';
	}
`

type focusedWindow struct {
	WMClass string `json:"wm_class"`
	Title   string `json:"title"`
}

// Source implements window.Source for GNOME on Wayland via the shell's
// session-bus Eval interface. Requires unsafe-mode or an older shell;
// availability is probed at startup.
type Source struct {
	conn *dbus.Conn
}

// NewSource connects to the session bus
func NewSource() (*Source, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Source{conn: conn}, nil
}

// IsAvailable reports whether this looks like a GNOME Wayland session
func (s *Source) IsAvailable() bool {
	if s.conn == nil {
		return false
	}
	desktop := strings.ToLower(os.Getenv("XDG_CURRENT_DESKTOP"))
	return strings.Contains(desktop, "gnome") || strings.Contains(desktop, "ubuntu")
}

// Name returns "gnome-shell"
func (s *Source) Name() string {
	return "gnome-shell"
}

// FrontmostApp evaluates the focused-window script in the shell and
// returns the window's WM class, falling back to its title.
func (s *Source) FrontmostApp() (string, error) {
	obj := s.conn.Object("org.gnome.Shell", "/org/gnome/Shell")

	var ok bool
	var result string
	call := obj.Call("org.gnome.Shell.Eval", 0, focusedWindowScript)
	if call.Err != nil {
		return "", fmt.Errorf("shell eval failed: %w", call.Err)
	}
	if err := call.Store(&ok, &result); err != nil {
		return "", fmt.Errorf("failed to parse eval reply: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("shell rejected eval: %s", result)
	}
	if result == "" || result == "null" {
		return "", fmt.Errorf("no focused window")
	}

	var fw focusedWindow
	if err := json.Unmarshal([]byte(result), &fw); err != nil {
		return "", fmt.Errorf("failed to decode focused window: %w", err)
	}

	if fw.WMClass != "" {
		return fw.WMClass, nil
	}
	if fw.Title != "" {
		return fw.Title, nil
	}
	return "", fmt.Errorf("focused window has no usable name")
}

// IsScreenLocked asks org.gnome.ScreenSaver whether the lock screen is
// active. Errors degrade to unlocked.
func (s *Source) IsScreenLocked() bool {
	obj := s.conn.Object("org.gnome.ScreenSaver", "/org/gnome/ScreenSaver")

	var active bool
	call := obj.Call("org.gnome.ScreenSaver.GetActive", 0)
	if call.Err != nil {
		return false
	}
	if err := call.Store(&active); err != nil {
		return false
	}
	return active
}

// Close closes the session bus connection
func (s *Source) Close() error {
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}
