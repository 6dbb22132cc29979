package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	nexuserrors "github.com/nexusai/nexus/pkg/errors"
)

// BedrockConfig configures the Amazon Bedrock embedding provider.
type BedrockConfig struct {
	Region     string `mapstructure:"region"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

// BedrockProvider implements Provider using Amazon Titan text embeddings
// on Bedrock.
type BedrockProvider struct {
	client  *bedrockruntime.Client
	modelID string
	dims    int
}

// NewBedrockProvider creates a Bedrock embedding provider using the
// default AWS credential chain.
func NewBedrockProvider(ctx context.Context, cfg BedrockConfig) (*BedrockProvider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	modelID := cfg.Model
	if modelID == "" {
		modelID = "amazon.titan-embed-text-v2:0"
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 1024
	}
	return &BedrockProvider{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: modelID,
		dims:    dims,
	}, nil
}

// titanEmbedRequest is the request body for Titan embedding models.
type titanEmbedRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
}

// titanEmbedResponse is the response from Titan embedding models.
type titanEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed implements Provider.Embed.
func (p *BedrockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	const op = "embedding.BedrockProvider.Embed"

	body, err := json.Marshal(titanEmbedRequest{InputText: text, Dimensions: p.dims})
	if err != nil {
		return nil, nexuserrors.Wrap(nexuserrors.CodeEmbeddingFailure, op, err)
	}

	output, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nexuserrors.WrapTransient(nexuserrors.CodeTimeout, op, err)
		}
		// Invoke failures are dominated by throttling and transport
		// errors, both worth a bounded retry.
		return nil, nexuserrors.WrapTransient(nexuserrors.CodeEmbeddingFailure, op, err)
	}

	var parsed titanEmbedResponse
	if err := json.Unmarshal(output.Body, &parsed); err != nil {
		return nil, nexuserrors.Wrap(nexuserrors.CodeEmbeddingFailure, op, err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, nexuserrors.New(nexuserrors.CodeEmbeddingFailure, op, "no embedding in response")
	}
	return parsed.Embedding, nil
}

// Dimensions implements Provider.Dimensions.
func (p *BedrockProvider) Dimensions() int {
	return p.dims
}

// Name implements Provider.Name.
func (p *BedrockProvider) Name() string {
	return "bedrock"
}
