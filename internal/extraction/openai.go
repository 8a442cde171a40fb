package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/formatting"
)

type openAIExtractor struct {
	client   *openai.Client
	cfg      Config
	source   InstructionSource
	fallback InstructionSource
	logger   *slog.Logger
}

// New returns the chat completion Extractor for cfg, or Disabled when cfg has no API key.
// source supplies the instructions for each request; nil uses cfg.Instructions.
func New(cfg Config, source InstructionSource, logger *slog.Logger) Extractor {
	if !cfg.Enabled() {
		logger.Warn("extraction disabled: no api key configured")
		return Disabled()
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	oc.HTTPClient = &http.Client{Timeout: cfg.TimeoutDuration()}

	fallback := StaticInstructions(cfg.Instructions)
	if source == nil {
		source = fallback
	}

	return &openAIExtractor{
		client:   openai.NewClientWithConfig(oc),
		cfg:      cfg,
		source:   source,
		fallback: fallback,
		logger:   logger.With("system", "extraction"),
	}
}

func (e *openAIExtractor) Extract(ctx context.Context, msg Message) ([]identify.Descriptor, error) {
	if msg.Empty() {
		return nil, nil
	}

	resp, err := e.client.CreateChatCompletion(ctx, e.request(msg, e.instructions(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%w: create chat completion: %w", ErrExtract, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrExtract)
	}

	parsed, err := formatting.Parse[response](resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtract, err)
	}

	descriptors := parsed.descriptors(msg)
	e.logger.Debug(
		"message extracted",
		"source", msg.Source,
		"vehicles", len(descriptors),
		"tokens", resp.Usage.TotalTokens,
	)
	return descriptors, nil
}

// instructions resolves the current instructions, falling back to the configured
// ones when the source fails.
func (e *openAIExtractor) instructions(ctx context.Context) string {
	text, err := e.source.Instructions(ctx)
	if err == nil && text != "" {
		return text
	}
	if err != nil {
		e.logger.Warn("instruction lookup failed, using configured instructions", "error", err)
	}
	text, _ = e.fallback.Instructions(ctx)
	return text
}

func (e *openAIExtractor) request(msg Message, instructions string) openai.ChatCompletionRequest {
	var user strings.Builder
	user.WriteString(msg.Text)
	for i, t := range msg.PhotoText {
		fmt.Fprintf(&user, "\n\n[photo %d text]\n%s", i+1, t)
	}

	return openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(instructions)},
			{Role: openai.ChatMessageRoleUser, Content: user.String()},
		},
	}
}
