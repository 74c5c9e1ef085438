// Package apiclient is a thin HTTP client for the Operator API (C6), used
// by the diagnostic CLI subcommands (status/intent/control/switch/oracle).
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "http://127.0.0.1:8080"
const DefaultTimeout = 10 * time.Second

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithTimeout(seconds uint16) Option {
	return func(c *Client) { c.httpClient.Timeout = time.Duration(seconds) * time.Second }
}

// Client talks the Operator API's JSON-over-HTTP contract.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LocoStatusView mirrors httpapi's JSON rendering of a locomotive's status.
type LocoStatusView struct {
	Direction string      `json:"direction"`
	Speed     string      `json:"speed"`
	Location  *string     `json:"location,omitempty"`
	Intent    *IntentView `json:"intent,omitempty"`
}

type IntentView struct {
	Kind       string  `json:"kind"`
	Direction  string  `json:"direction"`
	Track      *string `json:"track,omitempty"`
	Checkpoint *string `json:"checkpoint,omitempty"`
}

func (c *Client) LocoStatus(locoId uint8) (LocoStatusView, error) {
	var view LocoStatusView
	err := c.get(fmt.Sprintf("/loco_status/%d", locoId), &view)
	return view, err
}

func (c *Client) ControlLoco(locoId, direction, speed uint8) error {
	return c.post("/control_loco", map[string]uint8{
		"loco_id": locoId, "direction": direction, "speed": speed,
	}, nil)
}

// SetIntent sends a drive intent when trackId is non-nil, otherwise a stop
// intent using checkpointId.
func (c *Client) SetIntent(locoId, direction uint8, trackId, checkpointId *uint8) error {
	body := map[string]any{"loco_id": locoId, "direction": direction}
	if trackId != nil {
		body["kind"] = "drive"
		body["track_id"] = *trackId
	} else {
		body["kind"] = "stop"
		body["checkpoint_id"] = *checkpointId
	}
	return c.post("/loco_intent", body, nil)
}

func (c *Client) DriveSwitchRails(actuatorId, state uint8) error {
	return c.post("/drive_switch_rails", map[string]uint8{
		"actuator_id": actuatorId, "state": state,
	}, nil)
}

func (c *Client) SetOracleMode(mode string) error {
	return c.post("/oracle_mode", map[string]string{"mode": mode}, nil)
}

func (c *Client) get(path string, out any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("cannot connect to controller (is %q reachable?): %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *Client) post(path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("cannot connect to controller (is %q reachable?): %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("controller returned HTTP %d: %s", resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
