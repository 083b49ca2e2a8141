// Package console sends built requests to the backend and shapes the
// responses for display.
package console

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rflorenc/catalog-console/internal/logging"
	"github.com/rflorenc/catalog-console/internal/models"
)

// Client executes request descriptors over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for a backend. A nil logger discards output.
func NewClient(backend *models.Backend, timeout time.Duration, logger *slog.Logger) *Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if backend.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	} else if backend.CACert != "" {
		caCertPool := x509.NewCertPool()
		if caCertPool.AppendCertsFromPEM([]byte(backend.CACert)) {
			transport.TLSClientConfig = &tls.Config{RootCAs: caCertPool}
		}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		logger:     logger,
	}
}

// Exchange is one executed request and the response as it should be shown.
type Exchange struct {
	ID         string                   `json:"id"`
	Request    models.RequestDescriptor `json:"request"`
	Status     int                      `json:"status"`
	StatusText string                   `json:"status_text"`
	OK         bool                     `json:"ok"`
	Body       string                   `json:"body"`
	Error      string                   `json:"error,omitempty"`
	DurationMS int64                    `json:"duration_ms"`
}

// Do executes d. Non-2xx responses are not errors: they come back as an
// Exchange with OK unset. An error means no response was received.
func (c *Client) Do(ctx context.Context, d models.RequestDescriptor) (*Exchange, error) {
	var bodyReader io.Reader
	if d.HasBody() {
		bodyReader = bytes.NewReader(d.Body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, d.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}

	ex := &Exchange{ID: uuid.New().String(), Request: d}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "id", ex.ID, "method", d.Method, "url", d.URL, "error", err)
		return nil, fmt.Errorf("%s %s: %w", d.Method, d.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	elapsed := time.Since(start)

	ex.Status = resp.StatusCode
	ex.StatusText = statusText(resp)
	ex.OK = resp.StatusCode >= 200 && resp.StatusCode < 300
	ex.Body = FormatBody(raw)
	ex.DurationMS = elapsed.Milliseconds()
	if !ex.OK {
		ex.Error = strings.TrimSpace(fmt.Sprintf("Request failed: %d %s", ex.Status, ex.StatusText))
		c.logger.Warn("backend returned an error status",
			"id", ex.ID, "method", d.Method, "url", d.URL,
			"status", ex.Status, "body", truncate(string(raw), 200))
	}
	c.logger.Info("request sent",
		"id", ex.ID, "method", d.Method, "url", d.URL,
		"status", ex.Status, "duration", elapsed)
	return ex, nil
}

// get performs a GET and returns the body, failing on non-2xx statuses.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, fmt.Errorf("GET %s: HTTP %d: %s", url, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// statusText returns the reason phrase the backend sent, falling back to
// the standard text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// FormatBody pretty-prints JSON with a two-space indent and returns any
// other payload unchanged.
func FormatBody(raw []byte) string {
	if !json.Valid(raw) {
		return string(raw)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
