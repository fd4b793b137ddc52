package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/quotenest/quotenest-api/internal/lead"
	"github.com/quotenest/quotenest-api/pkg/logging"
)

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockGenerator produces insurance summaries via the Bedrock Converse
// API, for deployments that keep all AI traffic inside AWS.
type BedrockGenerator struct {
	api     bedrockConverseAPI
	modelID string
	logger  *logging.Logger
}

// NewBedrockGenerator returns a Bedrock-backed Generator.
func NewBedrockGenerator(api bedrockConverseAPI, modelID string, logger *logging.Logger) *BedrockGenerator {
	if api == nil {
		panic("summary: bedrock converse client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BedrockGenerator{api: api, modelID: modelID, logger: logger}
}

// Generate builds the summary prompt and parses the model's JSON reply.
func (g *BedrockGenerator) Generate(ctx context.Context, sub *lead.Submission) (*lead.Summary, error) {
	if strings.TrimSpace(g.modelID) == "" {
		return nil, errors.New("summary: bedrock model id is required")
	}

	out, err := g.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		System: []brtypes.SystemContentBlock{
			&brtypes.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []brtypes.Message{
			{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: buildPrompt(sub)},
				},
			},
		},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(1024),
			Temperature: aws.Float32(0.7),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("summary: bedrock converse failed: %w", err)
	}

	text, err := extractOutputText(out)
	if err != nil {
		return nil, err
	}
	return parseSummary(text)
}

func extractOutputText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil {
		return "", errors.New("summary: bedrock response is nil")
	}
	msgOut, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("summary: bedrock response did not include a message output")
	}
	if len(msgOut.Value.Content) == 0 {
		return "", errors.New("summary: bedrock response message was empty")
	}

	var builder strings.Builder
	for _, block := range msgOut.Value.Content {
		if textBlock, ok := block.(*brtypes.ContentBlockMemberText); ok {
			builder.WriteString(textBlock.Value)
		}
	}
	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("summary: bedrock response contained no text content blocks")
	}
	return text, nil
}

var _ Generator = (*BedrockGenerator)(nil)
