package embedding

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

// OpenAIConfig configures the OpenAI-compatible embedding provider. The
// base URL is configurable so the same client serves any service exposing
// the /embeddings surface.
type OpenAIConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	Dimensions int           `mapstructure:"dimensions"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// OpenAIProvider implements Provider against an OpenAI-compatible
// embeddings endpoint.
type OpenAIProvider struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIProvider creates an OpenAI-compatible embedding provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 1536
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OpenAIProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// openAIEmbedRequest is the request body for the embeddings endpoint.
type openAIEmbedRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

// openAIEmbedResponse is the response from the embeddings endpoint.
type openAIEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

// Embed implements Provider.Embed.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	const op = "embedding.OpenAIProvider.Embed"

	body, err := json.Marshal(openAIEmbedRequest{Input: text, Model: p.cfg.Model})
	if err != nil {
		return nil, nexuserrors.Wrap(nexuserrors.CodeEmbeddingFailure, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, nexuserrors.Wrap(nexuserrors.CodeEmbeddingFailure, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, nexuserrors.WrapTransient(nexuserrors.CodeTimeout, op, err)
		}
		return nil, nexuserrors.WrapTransient(nexuserrors.CodeEmbeddingFailure, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nexuserrors.WrapTransient(nexuserrors.CodeEmbeddingFailure, op, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("embeddings API returned status %d: %s", resp.StatusCode, truncate(respBody, 256))
		if retryableStatus(resp.StatusCode) {
			return nil, nexuserrors.NewTransient(nexuserrors.CodeEmbeddingFailure, op, msg)
		}
		return nil, nexuserrors.New(nexuserrors.CodeEmbeddingFailure, op, msg)
	}

	var parsed openAIEmbedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, nexuserrors.Wrap(nexuserrors.CodeEmbeddingFailure, op, err)
	}
	if len(parsed.Data) == 0 {
		return nil, nexuserrors.New(nexuserrors.CodeEmbeddingFailure, op, "no embedding data in response")
	}
	return parsed.Data[0].Embedding, nil
}

// Dimensions implements Provider.Dimensions.
func (p *OpenAIProvider) Dimensions() int {
	return p.cfg.Dimensions
}

// Name implements Provider.Name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests ||
		status == http.StatusRequestTimeout ||
		status >= http.StatusInternalServerError
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
