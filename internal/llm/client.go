package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default

	// Schema, when set, asks the provider for structured output matching
	// this JSON schema. SchemaName labels it for providers that need one.
	Schema     json.RawMessage
	SchemaName string
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the provider is reachable.
	Available(ctx context.Context) bool
}

// NewClient returns the client for cfg.Provider.
func NewClient(cfg LLMConfig, observer Observer) LLMClient {
	if cfg.Provider == ProviderOpenAI {
		return NewOpenAIClient(cfg, observer)
	}
	return NewOllamaClient(cfg, observer)
}

// transport carries what both providers share: HTTP, retry and telemetry.
type transport struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

func newTransport(cfg LLMConfig, observer Observer) transport {
	if observer == nil {
		observer = NoopObserver{}
	}
	return transport{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
		observer: observer,
	}
}

// params resolves temperature and token limits for req.
func (t transport) params(req GenerateRequest) (float64, int) {
	taskCfg := t.cfg.Tasks[req.Task]
	temp, maxTok := taskCfg.Temperature, taskCfg.MaxTokens
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}

type attemptFunc func(ctx context.Context) (text, model string, err error)

// run executes attempt with the task timeout and bounded retry, then
// reports the outcome to the observer.
func (t transport) run(ctx context.Context, task TaskType, attempt attemptFunc) (*GenerateResponse, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(t.cfg.TaskTimeout(task))*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 0
	for attempts < 1+t.cfg.MaxRetries {
		attempts++
		text, model, err := attempt(ctx)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			t.report(task, latency, attempts, nil)
			return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
		}
		lastErr = err
		if ctx.Err() != nil || !shouldRetry(err) {
			break
		}
	}

	err := classify(ctx, lastErr)
	t.report(task, time.Since(start).Milliseconds(), attempts, err)
	return nil, err
}

func (t transport) report(task TaskType, latency int64, attempts int, err error) {
	t.observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Provider:  t.cfg.Provider,
		Model:     t.cfg.Model,
		LatencyMs: latency,
		Attempts:  attempts,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
}

// postJSON sends body to url and decodes a 200 response into out.
func (t transport) postJSON(ctx context.Context, url string, headers map[string]string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &statusError{Code: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	return nil
}

// probe reports whether GET url answers 200 within two seconds.
func (t transport) probe(ctx context.Context, url string, headers map[string]string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func shouldRetry(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.retryable()
	}
	return !errors.Is(err, ErrInvalidOutput)
}

func classify(ctx context.Context, err error) error {
	var se *statusError
	switch {
	case ctx.Err() != nil:
		return ErrTimeout
	case isConnectionError(err):
		return ErrUnavailable
	case errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case errors.Is(err, ErrInvalidOutput):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return err != nil && errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}

// ollamaClient implements LLMClient using the Ollama HTTP API.
type ollamaClient struct {
	transport
}

// NewOllamaClient creates an LLMClient that talks to a local Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	return &ollamaClient{transport: newTransport(cfg, observer)}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  json.RawMessage `json:"format,omitempty"`
	Options ollamaOptions   `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := c.params(req)
	body := ollamaRequest{
		Model:   c.cfg.Model,
		System:  req.SystemPrompt,
		Prompt:  req.UserPrompt,
		Format:  req.Schema,
		Options: ollamaOptions{Temperature: temp, NumPredict: maxTok},
	}
	return c.run(ctx, req.Task, func(ctx context.Context) (string, string, error) {
		var resp ollamaResponse
		if err := c.postJSON(ctx, c.cfg.Endpoint+"/api/generate", nil, body, &resp); err != nil {
			return "", "", err
		}
		return resp.Response, resp.Model, nil
	})
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	return c.probe(ctx, c.cfg.Endpoint+"/api/tags", nil)
}
