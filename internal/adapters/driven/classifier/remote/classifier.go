// Package remote provides a classifier that delegates to the add-in's
// own redaction API server over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/domain"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.Classifier = (*Classifier)(nil)

// Default configuration values.
const (
	DefaultEndpoint = "http://localhost:8080"

	// No timeout is enforced beyond the transport default; the server
	// side owns the upstream budget. A generous client cap avoids a
	// hang on a dead connection.
	DefaultTimeout = 180 * time.Second
)

// Classifier calls POST /api/redact on a redaction API server.
type Classifier struct {
	client   *http.Client
	endpoint string
}

type redactRequest struct {
	Text string `json:"text"`
}

type redactResponse struct {
	PII   []string `json:"pii"`
	Error string   `json:"error"`
}

// New creates a classifier pointed at the given server base URL.
// An empty endpoint falls back to DefaultEndpoint.
func New(endpoint string) *Classifier {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Classifier{
		client:   &http.Client{Timeout: DefaultTimeout},
		endpoint: strings.TrimRight(endpoint, "/"),
	}
}

// Classify submits the text and returns the sensitive substrings the
// server found. Any failure maps to domain.ErrClassifierUnavailable;
// the server's error message is surfaced verbatim when present.
func (c *Classifier) Classify(ctx context.Context, text string) ([]string, error) {
	jsonBody, err := json.Marshal(redactRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint+"/api/redact",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed redactResponse
	if unmarshalErr := json.Unmarshal(body, &parsed); unmarshalErr != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", domain.ErrClassifierUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, unmarshalErr)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrClassifierUnavailable, parsed.Error)
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrClassifierUnavailable, resp.StatusCode)
	}

	return parsed.PII, nil
}

// Ping checks the server's health endpoint.
func (c *Classifier) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned status %d", domain.ErrClassifierUnavailable, resp.StatusCode)
	}
	return nil
}
