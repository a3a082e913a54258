package slack

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultBaseURL = "https://slack.com/api"

// ErrNoToken is returned when no auth token is configured. No network
// I/O is attempted in that case.
var ErrNoToken = errors.New("slack token not configured")

// Client talks to the two Slack endpoints that make up focus mode:
// dnd.setSnooze and users.profile.set. Both calls are idempotent.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Slack client. An empty token is allowed; both
// calls will then fail with ErrNoToken without touching the network.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint, used in tests
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// SetDoNotDisturb snoozes Slack notifications for the given number of
// minutes.
func (c *Client) SetDoNotDisturb(minutes int) error {
	if c.token == "" {
		return ErrNoToken
	}

	form := url.Values{}
	form.Set("num_minutes", strconv.Itoa(minutes))

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/dnd.setSnooze", strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to build dnd.setSnooze request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, "dnd.setSnooze")
}

// SetStatus sets the profile status text and emoji with an explicit
// expiration. Slack clears the status itself once expiresAt passes; no
// explicit clear is ever issued.
func (c *Client) SetStatus(text, emoji string, expiresAt time.Time) error {
	if c.token == "" {
		return ErrNoToken
	}

	payload := map[string]any{
		"profile": map[string]any{
			"status_text":       text,
			"status_emoji":      emoji,
			"status_expiration": expiresAt.Unix(),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal profile payload")
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/users.profile.set", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build users.profile.set request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	return c.do(req, "users.profile.set")
}

func (c *Client) do(req *http.Request, method string) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", method)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", method)
	}

	if !result.OK {
		if result.Error == "" {
			result.Error = "unknown error"
		}
		return errors.Errorf("%s rejected: %s", method, result.Error)
	}

	return nil
}
