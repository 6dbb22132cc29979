package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
)

// OpenAIConfig configures the OpenAI-compatible chat completion client.
// The default base URL points at Groq, which exposes the same surface.
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// OpenAIClient implements Client against an OpenAI-compatible chat
// completions endpoint.
type OpenAIClient struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIClient creates an OpenAI-compatible chat client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3-8b-8192"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate implements Client.Generate.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "answer.OpenAIClient.Generate"

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", nexuserrors.Wrap(nexuserrors.CodeAnswerGenerationFailure, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", nexuserrors.Wrap(nexuserrors.CodeAnswerGenerationFailure, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", nexuserrors.WrapTransient(nexuserrors.CodeTimeout, op, err)
		}
		return "", nexuserrors.WrapTransient(nexuserrors.CodeAnswerGenerationFailure, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nexuserrors.WrapTransient(nexuserrors.CodeAnswerGenerationFailure, op, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("chat API returned status %d: %s", resp.StatusCode, truncate(respBody, 256))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", nexuserrors.NewTransient(nexuserrors.CodeAnswerGenerationFailure, op, msg)
		}
		return "", nexuserrors.New(nexuserrors.CodeAnswerGenerationFailure, op, msg)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nexuserrors.Wrap(nexuserrors.CodeAnswerGenerationFailure, op, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", nexuserrors.New(nexuserrors.CodeAnswerGenerationFailure, op, "no completion in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Name implements Client.Name.
func (c *OpenAIClient) Name() string {
	return "openai-chat"
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
