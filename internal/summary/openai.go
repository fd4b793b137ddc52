package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/quotenest/quotenest-api/internal/lead"
	"github.com/quotenest/quotenest-api/pkg/logging"
)

var openaiTracer = otel.Tracer("quotenest.internal.summary.openai")

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator produces insurance summaries via the OpenAI chat
// completions API with a JSON-object response format.
type OpenAIGenerator struct {
	client chatClient
	model  string
	logger *logging.Logger
}

// NewOpenAIGenerator returns an OpenAI-backed Generator.
func NewOpenAIGenerator(client chatClient, model string, logger *logging.Logger) *OpenAIGenerator {
	if client == nil {
		panic("summary: chat client cannot be nil")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &OpenAIGenerator{client: client, model: model, logger: logger}
}

// Generate builds the summary prompt and requests a structured JSON reply.
func (g *OpenAIGenerator) Generate(ctx context.Context, sub *lead.Submission) (*lead.Summary, error) {
	ctx, span := openaiTracer.Start(ctx, "summary.openai")
	defer span.End()
	span.SetAttributes(
		attribute.String("quotenest.insurance_type", sub.InsuranceType),
		attribute.String("quotenest.model", g.model),
	)

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(sub)},
		},
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(callCtx, req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("summary: openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("summary: openai returned no choices")
		span.RecordError(err)
		return nil, err
	}

	parsed, err := parseSummary(resp.Choices[0].Message.Content)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return parsed, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
