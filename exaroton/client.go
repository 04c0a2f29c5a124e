package exaroton

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/spf13/viper"
)

// Server status codes as reported by the hosting API.
const (
	StatusOffline = iota
	StatusOnline
	StatusStarting
	StatusStopping
	StatusRestarting
	StatusSaving
	StatusLoading
	StatusCrashed
)

var (
	ErrUnauthorized = errors.New("authentication failed, check the API token")
	ErrForbidden    = errors.New("access denied, check the API token permissions")
	ErrNotFound     = errors.New("server not found, check the server ID")
)

var statusNames = map[int]string{
	StatusOffline:    "offline",
	StatusOnline:     "online",
	StatusStarting:   "starting",
	StatusStopping:   "stopping",
	StatusRestarting: "restarting",
	StatusSaving:     "saving",
	StatusLoading:    "loading",
	StatusCrashed:    "crashed",
}

// StatusName converts a numeric server status into a readable name.
func StatusName(code int) string {
	if name, ok := statusNames[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%d)", code)
}

// Client is a minimal exaroton hosting API client: server status, console
// commands and log retrieval. Nothing more is needed for the time command.
type Client struct {
	base     string
	token    string
	serverID string
	http     *http.Client
}

func NewClient() *Client {
	return NewClientWith(
		viper.GetString("exaroton.api"),
		viper.GetString("exaroton.token"),
		viper.GetString("exaroton.server.id"),
		&http.Client{Timeout: 15 * time.Second},
	)
}

func NewClientWith(base, token, serverID string, hc *http.Client) *Client {
	return &Client{base: base, token: token, serverID: serverID, http: hc}
}

// Configured reports whether the server credentials are present.
func (c *Client) Configured() bool {
	return c.token != "" && c.serverID != ""
}

type Server struct {
	Name   string `json:"name"`
	Status int    `json:"status"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// GetServer fetches the server's name and status.
func (c *Client) GetServer(ctx context.Context) (*Server, error) {
	data, err := c.do(ctx, http.MethodGet, "", nil)
	if err != nil {
		return nil, err
	}
	var server Server
	if err := json.Unmarshal(data, &server); err != nil {
		return nil, fmt.Errorf("decoding server response: %w", err)
	}
	return &server, nil
}

// ExecuteCommand runs a console command on the server.
func (c *Client) ExecuteCommand(ctx context.Context, command string) error {
	body, _ := json.Marshal(map[string]string{"command": command})
	_, err := c.do(ctx, http.MethodPost, "/command", body)
	return err
}

// GetLogs returns the server's current console log content.
func (c *Client) GetLogs(ctx context.Context) (string, error) {
	data, err := c.do(ctx, http.MethodGet, "/logs", nil)
	if err != nil {
		return "", err
	}
	var logs struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &logs); err != nil {
		return "", fmt.Errorf("decoding logs response: %w", err)
	}
	return logs.Content, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/servers/%s%s", c.base, c.serverID, path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusForbidden:
		return nil, ErrForbidden
	case http.StatusNotFound:
		return nil, ErrNotFound
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decoding API response: %w", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("API error: %s", parsed.Error)
	}
	return parsed.Data, nil
}

var (
	strictDayPattern = regexp.MustCompile(`\[.*?\] \[.*?\]: The time is (\d+)`)
	broadDayPattern  = regexp.MustCompile(`The time is (\d+)`)
)

// ParseDay extracts the in-game day number from console logs after a
// "time query day" command. The bracket-prefixed server log form is tried
// first, then a broad match.
func ParseDay(logs string) (string, bool) {
	if m := strictDayPattern.FindStringSubmatch(logs); m != nil {
		return m[1], true
	}
	if m := broadDayPattern.FindStringSubmatch(logs); m != nil {
		return m[1], true
	}
	return "", false
}
