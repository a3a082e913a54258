package x11

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Source implements window.Source for X11 by reading EWMH properties
// directly over the X protocol.
type Source struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// NewSource connects to the X server and interns the atoms needed to
// resolve the active window and its class.
func NewSource() (*Source, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	s := &Source{
		conn:  conn,
		root:  root,
		atoms: make(map[string]xproto.Atom),
	}

	atomNames := []string{
		"_NET_ACTIVE_WINDOW",
		"_NET_WM_NAME",
		"WM_CLASS",
		"UTF8_STRING",
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to intern atom %s: %w", name, err)
		}
		s.atoms[name] = reply.Atom
	}

	return s, nil
}

// IsAvailable checks if an X display is reachable
func (s *Source) IsAvailable() bool {
	return s.conn != nil && os.Getenv("DISPLAY") != ""
}

// Name returns "x11"
func (s *Source) Name() string {
	return "x11"
}

// FrontmostApp resolves _NET_ACTIVE_WINDOW and returns the window's
// WM_CLASS class name, falling back to _NET_WM_NAME when the class is
// unset.
func (s *Source) FrontmostApp() (string, error) {
	windowID := s.activeWindow()
	if windowID == 0 {
		windowID = s.inputFocusWindow()
	}
	if windowID == 0 || windowID == s.root {
		return "", fmt.Errorf("no active window found")
	}

	if _, class := s.windowClass(windowID); class != "" {
		return class, nil
	}

	if name := s.windowName(windowID); name != "" {
		return name, nil
	}

	return "", fmt.Errorf("active window has no usable name")
}

func (s *Source) getProperty(window xproto.Window, atom xproto.Atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(s.conn, false, window, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (s *Source) activeWindow() xproto.Window {
	data, err := s.getProperty(s.root, s.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

func (s *Source) inputFocusWindow() xproto.Window {
	reply, err := xproto.GetInputFocus(s.conn).Reply()
	if err != nil {
		return 0
	}
	return s.topLevelParent(reply.Focus)
}

func (s *Source) topLevelParent(window xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(s.conn, window).Reply()
		if err != nil || reply.Parent == s.root || reply.Parent == 0 {
			return window
		}
		window = reply.Parent
	}
}

func (s *Source) windowName(window xproto.Window) string {
	data, err := s.getProperty(window, s.atoms["_NET_WM_NAME"], s.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	return ""
}

// windowClass splits WM_CLASS into its instance and class components.
func (s *Source) windowClass(window xproto.Window) (instance, class string) {
	data, err := s.getProperty(window, s.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil || len(data) == 0 {
		return "", ""
	}

	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

// Close closes the X connection
func (s *Source) Close() error {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}
