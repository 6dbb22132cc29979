package answer

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

// BedrockConfig configures the Bedrock answer-generation client.
type BedrockConfig struct {
	Region      string  `mapstructure:"region"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// BedrockClient implements Client using Anthropic Claude models on
// Amazon Bedrock.
type BedrockClient struct {
	client      *bedrockruntime.Client
	modelID     string
	temperature float64
	maxTokens   int
}

// NewBedrockClient creates a Bedrock chat client using the default AWS
// credential chain.
func NewBedrockClient(ctx context.Context, cfg BedrockConfig) (*BedrockClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	modelID := cfg.Model
	if modelID == "" {
		modelID = "anthropic.claude-3-haiku-20240307-v1:0"
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &BedrockClient{
		client:      bedrockruntime.NewFromConfig(awsCfg),
		modelID:     modelID,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// claudeRequest is the Anthropic messages request body on Bedrock.
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the Anthropic messages response body.
type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate implements Client.Generate.
func (c *BedrockClient) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "answer.BedrockClient.Generate"

	body, err := json.Marshal(claudeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        c.maxTokens,
		Temperature:      c.temperature,
		Messages:         []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", nexuserrors.Wrap(nexuserrors.CodeAnswerGenerationFailure, op, err)
	}

	output, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", nexuserrors.WrapTransient(nexuserrors.CodeTimeout, op, err)
		}
		return "", nexuserrors.WrapTransient(nexuserrors.CodeAnswerGenerationFailure, op, err)
	}

	var parsed claudeResponse
	if err := json.Unmarshal(output.Body, &parsed); err != nil {
		return "", nexuserrors.Wrap(nexuserrors.CodeAnswerGenerationFailure, op, err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", nexuserrors.New(nexuserrors.CodeAnswerGenerationFailure, op, "no text content in response")
}

// Name implements Client.Name.
func (c *BedrockClient) Name() string {
	return "bedrock-claude"
}
