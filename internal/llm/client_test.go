package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

func openAIConfig(endpoint string) LLMConfig {
	cfg := testConfig(endpoint)
	cfg.Provider = ProviderOpenAI
	cfg.Model = defaultOpenAIModel
	cfg.APIKey = "sk-test"
	return cfg
}

var goalsSchema = json.RawMessage(`{"type":"object","properties":{"goals":{"type":"array","items":{"type":"string"}}},"required":["goals"]}`)

func TestOllamaClient_Generate_SendsSchemaAsFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "user prompt", req.Prompt)
		assert.JSONEq(t, string(goalsSchema), string(req.Format))
		assert.Equal(t, 512, req.Options.NumPredict)

		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: `{"goals":["a","b","c"]}`})
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskTopGoals,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
		Schema:       goalsSchema,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"goals":["a","b","c"]}`, resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskClassify: {MaxTokens: 64, TimeoutMs: 50},
	}

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MaxRetries = 0

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOllamaClient_Generate_RetriesServerError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("internal error"))
			return
		}
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "ok"})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	client := NewOllamaClient(cfg, NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestOllamaClient_Generate_BadRequestNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig(srv.URL), nil).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), nil).Available(context.Background()))
}

func TestOpenAIClient_Generate_StructuredOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultOpenAIModel, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_schema", req.ResponseFormat.Type)
		assert.Equal(t, "goals", req.ResponseFormat.JSONSchema.Name)
		assert.True(t, req.ResponseFormat.JSONSchema.Strict)

		w.Write([]byte(`{"model":"gpt-4o-2024-08-06","choices":[{"message":{"content":"{\"goals\":[\"x\"]}"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(openAIConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskTopGoals,
		SystemPrompt: "sys",
		UserPrompt:   "usr",
		Schema:       goalsSchema,
		SchemaName:   "goals",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"goals":["x"]}`, resp.Text)
	assert.Equal(t, defaultOpenAIModel, resp.Model)
}

func TestOpenAIClient_Generate_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid key"}`))
	}))
	defer srv.Close()

	client := NewClient(openAIConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOpenAIClient_Generate_Refusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"","refusal":"no"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(openAIConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestOpenAIClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	assert.True(t, NewClient(openAIConfig(srv.URL), nil).Available(context.Background()))
}

func TestClient_ObserverReceivesOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "ok"})
	}))
	defer srv.Close()

	var captured LLMCallEvent
	client := NewOllamaClient(testConfig(srv.URL), &captureObserver{fn: func(e LLMCallEvent) { captured = e }})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskSchedule, UserPrompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, TaskSchedule, captured.Task)
	assert.Equal(t, ProviderOllama, captured.Provider)
	assert.Equal(t, 1, captured.Attempts)
	assert.True(t, captured.Success)
	assert.Empty(t, captured.ErrorCode)
}

func TestClient_ObserverTimeoutErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.Tasks = map[TaskType]TaskConfig{TaskClassify: {TimeoutMs: 50}}

	var captured LLMCallEvent
	client := NewOllamaClient(cfg, &captureObserver{fn: func(e LLMCallEvent) { captured = e }})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskClassify, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, captured.Success)
	assert.Equal(t, "TIMEOUT", captured.ErrorCode)
}

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }
