package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"pageforge/internal/config"
	"pageforge/internal/foundation/errors"
	"pageforge/internal/logfields"
)

// systemPrompt and userPromptTemplate shape every completion request. The
// prompt pins the response contract the parser expects.
const systemPrompt = `You write minimal static web apps. Return JSON: {"files":[{"path","content"}]}.
Must: read ?url= for an image, show it, run Tesseract.js OCR, print text within 15s, responsive UI.`

const userPromptTemplate = "Brief: %s\nFiles: index.html, styles.css (optional)"

// Provider proposes site files for a brief. Implementations may fail;
// the Generator degrades to the built-in template instead of surfacing
// the failure.
type Provider interface {
	Propose(ctx context.Context, brief string) ([]File, error)
}

// OpenAIProvider asks an OpenAI-compatible chat completion API for the
// site files.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIProvider creates a provider from the generator configuration.
// The configuration must carry an API base and key; use
// config.GeneratorConfig.Enabled to check before constructing.
func NewOpenAIProvider(cfg config.GeneratorConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = cfg.APIBase
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout()}

	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}
	slog.Debug("Chat completion provider configured", logfields.Model(model), logfields.URL(cfg.APIBase))

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
	}
}

// filesProposal is the JSON contract the model is instructed to return.
type filesProposal struct {
	Files []File `json:"files"`
}

// Propose requests a completion and parses the proposed file set out of
// the first choice.
func (p *OpenAIProvider) Propose(ctx context.Context, brief string) ([]File, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPromptTemplate, brief)},
		},
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGeneration, "chat completion request failed").Build()
	}
	if len(resp.Choices) == 0 {
		return nil, errors.GenerationError("chat completion returned no choices").Build()
	}

	var proposal filesProposal
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &proposal); err != nil {
		return nil, errors.WrapError(err, errors.CategoryGeneration, "chat completion content is not the expected JSON").Build()
	}
	return proposal.Files, nil
}
