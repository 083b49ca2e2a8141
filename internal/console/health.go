package console

import (
	"context"
	"encoding/json"
	"fmt"
)

// Health is the backend's health response: {"status":"ok","service":"product","version":"1.0.0"}.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`
}

// ParseHealth decodes a health response body.
func ParseHealth(body []byte) (*Health, error) {
	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, fmt.Errorf("parsing health response: %w", err)
	}
	if h.Status == "" {
		return nil, fmt.Errorf("health response missing status field")
	}
	return &h, nil
}

// CheckHealth calls the health endpoint and parses the reply. If the
// request succeeds but the body can't be parsed, it returns a Health with
// only Status set (reachable, details unknown).
func (c *Client) CheckHealth(ctx context.Context, url string) (*Health, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	h, err := ParseHealth(body)
	if err != nil {
		c.logger.Debug("unparsed health response", "url", url, "error", err)
		return &Health{Status: "ok"}, nil
	}
	return h, nil
}
