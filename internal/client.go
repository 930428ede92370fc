package internal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ModelClient sends composed requests to a completion service. An empty
// reply is valid output, never an error.
type ModelClient interface {
	// Chat performs a single blocking round trip and returns the full
	// reply text.
	Chat(ctx context.Context, messages []ChatMessage) (string, error)

	// Stream delivers the reply as fragments in arrival order. fn
	// returning an error stops consumption; the connection is released on
	// every exit path.
	Stream(ctx context.Context, messages []ChatMessage, fn func(fragment string) error) error
}

// OllamaClient talks to an Ollama-compatible /api/chat endpoint.
type OllamaClient struct {
	Host       string
	Model      string
	HTTPClient *http.Client
}

// NewOllamaClient creates a client for the given host and model.
func NewOllamaClient(host, model string) *OllamaClient {
	return &OllamaClient{
		Host:       strings.TrimRight(host, "/"),
		Model:      model,
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatResponse covers the response shapes the service is known to produce:
// the chat API's message.content and the generate API's flat response field.
type chatResponse struct {
	Message  *ChatMessage `json:"message,omitempty"`
	Response string       `json:"response,omitempty"`
	Done     bool         `json:"done"`
	Error    string       `json:"error,omitempty"`
}

func (r *chatResponse) content() string {
	if r.Message != nil {
		return r.Message.Content
	}
	return r.Response
}

// Chat performs a blocking completion round trip.
func (c *OllamaClient) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	resp, err := c.post(ctx, messages, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8_000_000))
	if err != nil {
		return "", &ServiceError{Status: resp.StatusCode, Detail: err.Error()}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ServiceError{Status: resp.StatusCode, Detail: fmt.Sprintf("unparseable response: %v", err)}
	}
	if parsed.Error != "" {
		return "", &ServiceError{Status: resp.StatusCode, Detail: parsed.Error}
	}
	return parsed.content(), nil
}

// Stream performs a streaming completion, invoking fn for each fragment. The
// response body is closed on every exit path, including early stops.
func (c *OllamaClient) Stream(ctx context.Context, messages []ChatMessage, fn func(string) error) error {
	resp, err := c.post(ctx, messages, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk chatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			LogDebug("Skipping unparseable stream chunk: %v", err)
			continue
		}
		if chunk.Error != "" {
			return &ServiceError{Status: resp.StatusCode, Detail: chunk.Error}
		}
		if err := fn(chunk.content()); err != nil {
			return err
		}
		if chunk.Done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return &ServiceError{Status: resp.StatusCode, Detail: err.Error()}
	}
	return nil
}

// Ping checks service reachability via the lightweight tags endpoint.
func (c *OllamaClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &UnreachableError{Host: c.Host, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &ServiceError{Status: resp.StatusCode, Detail: "tags endpoint returned non-success"}
	}
	return nil
}

func (c *OllamaClient) post(ctx context.Context, messages []ChatMessage, stream bool) (*http.Response, error) {
	payload, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages, Stream: stream})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &UnreachableError{Host: c.Host, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &ServiceError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
	}
	return resp, nil
}

func (c *OllamaClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
