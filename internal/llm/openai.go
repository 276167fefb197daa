package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// openaiClient implements LLMClient against an OpenAI-compatible
// chat completions endpoint with structured outputs.
type openaiClient struct {
	transport
}

// NewOpenAIClient creates an LLMClient for cfg.Endpoint using cfg.APIKey.
func NewOpenAIClient(cfg LLMConfig, observer Observer) LLMClient {
	return &openaiClient{transport: newTransport(cfg, observer)}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatJSONSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
	Strict bool            `json:"strict"`
}

type chatResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *chatJSONSchema `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openaiClient) headers() map[string]string {
	if c.cfg.APIKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
}

func (c *openaiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := c.params(req)
	body := chatRequest{
		Model:       c.cfg.Model,
		Temperature: temp,
		MaxTokens:   maxTok,
	}
	if req.SystemPrompt != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.UserPrompt})
	if len(req.Schema) > 0 {
		name := req.SchemaName
		if name == "" {
			name = string(req.Task)
		}
		body.ResponseFormat = &chatResponseFormat{
			Type:       "json_schema",
			JSONSchema: &chatJSONSchema{Name: name, Schema: req.Schema, Strict: true},
		}
	}

	return c.run(ctx, req.Task, func(ctx context.Context) (string, string, error) {
		var resp chatResponse
		if err := c.postJSON(ctx, c.cfg.Endpoint+"/v1/chat/completions", c.headers(), body, &resp); err != nil {
			return "", "", err
		}
		if len(resp.Choices) == 0 {
			return "", "", fmt.Errorf("%w: response has no choices", ErrInvalidOutput)
		}
		msg := resp.Choices[0].Message
		if msg.Refusal != "" {
			return "", "", fmt.Errorf("%w: model refused: %s", ErrInvalidOutput, msg.Refusal)
		}
		return msg.Content, resp.Model, nil
	})
}

func (c *openaiClient) Available(ctx context.Context) bool {
	return c.probe(ctx, c.cfg.Endpoint+"/v1/models", c.headers())
}
