package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskTopGoals TaskType = "top_goals"
	TaskSchedule TaskType = "schedule"
	TaskClassify TaskType = "classify"
)

// Provider selects the wire protocol used to reach the model.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

const (
	defaultOllamaEndpoint = "http://localhost:11434"
	defaultOllamaModel    = "llama3.2"
	defaultOpenAIEndpoint = "https://api.openai.com"
	defaultOpenAIModel    = "gpt-4o-2024-08-06"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Provider   Provider
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig for a local Ollama. The LLM is
// disabled until TIMEBOX_LLM_ENABLED is set.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderOllama,
		Endpoint:   defaultOllamaEndpoint,
		Model:      defaultOllamaModel,
		TimeoutMs:  20000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskTopGoals: {Temperature: 0.4, MaxTokens: 512, TimeoutMs: 20000},
			TaskSchedule: {Temperature: 0.3, MaxTokens: 4096, TimeoutMs: 60000},
			TaskClassify: {Temperature: 0.0, MaxTokens: 64, TimeoutMs: 8000},
		},
	}
}

// LoadConfig reads LLM configuration from TIMEBOX_LLM_* environment
// variables, falling back to defaults for any unset values. Choosing the
// openai provider also switches the default endpoint and model.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("TIMEBOX_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TIMEBOX_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := strings.ToLower(os.Getenv("TIMEBOX_LLM_PROVIDER")); v == string(ProviderOpenAI) {
		cfg.Provider = ProviderOpenAI
		cfg.Endpoint = defaultOpenAIEndpoint
		cfg.Model = defaultOpenAIModel
	}
	if v := os.Getenv("TIMEBOX_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TIMEBOX_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TIMEBOX_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TIMEBOX_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TIMEBOX_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskTopGoals, "TIMEBOX_LLM_TOP_GOALS_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSchedule, "TIMEBOX_LLM_SCHEDULE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskClassify, "TIMEBOX_LLM_CLASSIFY_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
