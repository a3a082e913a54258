package focus

import (
	"log"
	"time"
)

// Notifier is the pair of idempotent remote actions that make up focus
// mode. Their failures are independent and non-fatal to each other.
type Notifier interface {
	SetDoNotDisturb(minutes int) error
	SetStatus(text, emoji string, expiresAt time.Time) error
}

// Options configures the engagement policy.
type Options struct {
	StatusText      string
	StatusEmoji     string
	Duration        time.Duration // DND snooze length and status expiry window
	RefreshInterval time.Duration // Minimum spacing between repeated remote engagements
	AutoExpire      bool          // Drop the active flag once Duration elapses
}

// State is the focus-mode state. Active implies LastEngagedAt is set.
type State struct {
	Active        bool
	LastEngagedAt time.Time
}

// Attempt describes the outcome of the most recent Engage call.
// Invoked is false when the debounce short-circuited the remote calls.
type Attempt struct {
	Timestamp time.Time
	Invoked   bool
	DNDOk     bool
	StatusOk  bool
	Engaged   bool
}

// Controller owns the debounced re-engagement policy. It is
// single-owner state: only the polling loop calls into it.
type Controller struct {
	notifier    Notifier
	opts        Options
	state       State
	lastAttempt Attempt
}

func NewController(notifier Notifier, opts Options) *Controller {
	return &Controller{notifier: notifier, opts: opts}
}

// Engage switches focus mode on, or refreshes it if the last engagement
// is older than the refresh interval. Returns true when the session is
// considered in focus mode after the call. When both remote actions
// fail the prior state is left unchanged and false is returned.
func (c *Controller) Engage(now time.Time) bool {
	if c.state.Active && now.Sub(c.state.LastEngagedAt) <= c.opts.RefreshInterval {
		c.lastAttempt = Attempt{Timestamp: now, Engaged: true}
		return true
	}

	log.Println("Enabling deep coding mode...")

	minutes := int(c.opts.Duration / time.Minute)

	dndErr := c.notifier.SetDoNotDisturb(minutes)
	if dndErr != nil {
		log.Printf("Failed to set DND: %v", dndErr)
	} else {
		log.Printf("Set DND mode for %d minutes", minutes)
	}

	statusErr := c.notifier.SetStatus(c.opts.StatusText, c.opts.StatusEmoji, now.Add(c.opts.Duration))
	if statusErr != nil {
		log.Printf("Failed to set status: %v", statusErr)
	} else {
		log.Printf("Set status to %q", c.opts.StatusText)
	}

	attempt := Attempt{
		Timestamp: now,
		Invoked:   true,
		DNDOk:     dndErr == nil,
		StatusOk:  statusErr == nil,
	}

	if dndErr != nil && statusErr != nil {
		c.lastAttempt = attempt
		log.Println("Failed to enable deep coding mode")
		return false
	}

	c.state.Active = true
	c.state.LastEngagedAt = now
	attempt.Engaged = true
	c.lastAttempt = attempt
	log.Printf("Deep coding mode active for %d minutes", minutes)
	return true
}

// MaybeExpire drops the active flag once the remote focus window has
// lapsed. No-op unless auto-expiry is enabled. Returns true when the
// flag was dropped.
func (c *Controller) MaybeExpire(now time.Time) bool {
	if !c.opts.AutoExpire || !c.state.Active {
		return false
	}
	if now.Sub(c.state.LastEngagedAt) <= c.opts.Duration {
		return false
	}
	c.state.Active = false
	log.Println("Deep coding mode window elapsed")
	return true
}

// Reset clears stale focus state. Never called automatically.
func (c *Controller) Reset() {
	c.state = State{}
}

// Active reports whether focus mode is considered engaged
func (c *Controller) Active() bool {
	return c.state.Active
}

// LastAttempt returns the outcome of the most recent Engage call
func (c *Controller) LastAttempt() Attempt {
	return c.lastAttempt
}
