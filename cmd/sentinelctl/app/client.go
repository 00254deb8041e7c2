package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

var errNotFound = errors.New("not found")

type hubClient struct {
	base string
	http *http.Client
}

func newHubClient(g *globalOptions) *hubClient {
	return &hubClient{
		base: strings.TrimRight(g.server, "/"),
		http: &http.Client{Timeout: g.timeout},
	}
}

func (c *hubClient) droneURL(callSign, suffix string) string {
	return c.base + "/api/drones/" + url.PathEscape(callSign) + suffix
}

func (c *hubClient) sendPing(ctx context.Context, callSign string, ping *model.TelemetryPing) error {
	body, err := json.Marshal(ping)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.droneURL(callSign, "/ping"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func (c *hubClient) getState(ctx context.Context, callSign string) (*model.DeviceSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.droneURL(callSign, "/state"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errNotFound
	default:
		return nil, apiError(resp)
	}

	var snap model.DeviceSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode state of %s: %w", callSign, err)
	}
	return &snap, nil
}

// apiError turns a non-2xx response into an error carrying the hub's message.
func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return fmt.Errorf("hub returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("hub returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
