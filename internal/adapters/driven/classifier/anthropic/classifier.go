// Package anthropic provides a sensitive-text classifier backed by the
// Anthropic API.
//
// The model is asked to return the sensitive strings verbatim rather
// than byte offsets, because models get offsets wrong. Locating the
// occurrences in the document is the workflow's job.
package anthropic

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

// Ensure Classifier implements the interfaces.
var (
	_ driven.Classifier       = (*Classifier)(nil)
	_ driven.PromptStoreAware = (*Classifier)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-latest"
	DefaultTimeout = 120 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	// maxTokens bounds the reply; a span list never needs more.
	maxTokens = 2048
)

// defaultClassifyPrompt is the fallback prompt when no PromptStore is
// configured. The %s placeholder receives the document text.
const defaultClassifyPrompt = `Identify every piece of sensitive information in the text below: personally identifiable information (PII), sensitive personal information, protected health information (PHI), financial account details, and government-issued identifiers.

Flag: full person names, email addresses, phone numbers, street addresses, dates of birth, social security and other government ID numbers, passport and driver licence numbers, credit card and bank account numbers, medical record numbers, and health conditions tied to a person.

Do NOT flag: common words, city names alone, dates not tied to a person, regular numbers.

Return ONLY a JSON array of the exact substrings as they appear in the text. Return [] if nothing sensitive is found. No explanation.

Text:
%s`

// Config holds configuration for the Anthropic classifier.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Classifier detects sensitive spans using the Anthropic messages API
// with deterministic sampling.
type Classifier struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	promptStore driven.PromptStore
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// New creates a new Anthropic classifier.
func New(cfg Config) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Classifier{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// SetPromptStore sets the prompt store for loading a customised
// classification prompt. If not set, the embedded default is used.
func (c *Classifier) SetPromptStore(store driven.PromptStore) {
	c.promptStore = store
}

// ModelName returns the name of the model being used.
func (c *Classifier) ModelName() string {
	return c.model
}

// Classify sends the text to the model and returns the sensitive
// substrings it names. The call is atomic and non-retriable.
func (c *Classifier) Classify(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	prompt := fmt.Sprintf(c.loadPrompt(), text)
	reqBody := messagesRequest{
		Model: c.model,
		Messages: []messagesMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
		// Deterministic sampling: the same document should yield the
		// same span list as far as the model allows.
		Temperature: 0,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return nil, &domain.MalformedOutputError{Raw: string(body)}
	}
	if msgResp.Error != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrClassifierUnavailable, msgResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrClassifierUnavailable, resp.StatusCode, string(body))
	}
	if len(msgResp.Content) == 0 {
		return nil, fmt.Errorf("%w: no response content returned", domain.ErrClassifierUnavailable)
	}

	var reply strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}

	return parseSpans(reply.String())
}

// parseSpans digs the JSON array of sensitive strings out of the model
// reply, tolerating markdown code fences and surrounding prose.
func parseSpans(reply string) ([]string, error) {
	content := stripCodeFence(reply)
	content = extractJSONArray(content)

	var spans []string
	if err := json.Unmarshal([]byte(content), &spans); err != nil {
		return nil, &domain.MalformedOutputError{Raw: strings.TrimSpace(reply)}
	}
	return spans, nil
}

// stripCodeFence removes ```json ... ``` or ``` ... ``` wrappers.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

// extractJSONArray finds the first [...] substring in s.
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	if start < 0 {
		return s
	}
	end := strings.LastIndex(s, "]")
	if end < start {
		return s
	}
	return s[start : end+1]
}

// loadPrompt loads the classification prompt from the store, falling
// back to the embedded default.
func (c *Classifier) loadPrompt() string {
	if c.promptStore == nil {
		return defaultClassifyPrompt
	}
	prompt, err := c.promptStore.Load(driven.PromptClassify)
	if err != nil {
		return defaultClassifyPrompt
	}
	return prompt
}

// Ping validates the service is reachable by checking the /v1/models
// endpoint. This validates the API key without running inference.
func (c *Classifier) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping failed: %v", domain.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: API returned status %d", domain.ErrClassifierUnavailable, resp.StatusCode)
		}
		return fmt.Errorf("%w: API returned status %d: %s", domain.ErrClassifierUnavailable, resp.StatusCode, string(body))
	}
	return nil
}
