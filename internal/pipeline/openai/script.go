// Package openai generates content ideas and narration scripts through the
// OpenAI chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/pipeline"
)

const (
	DefaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second
)

var ErrAPIKeyNotSet = errors.New("OpenAI API key not set")

type ScriptGenerator struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// Make sure we conform to the pipeline interface
var _ pipeline.ScriptGenerator = (*ScriptGenerator)(nil)

func New(apiKey, model string) (*ScriptGenerator, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultModel
	}
	return &ScriptGenerator{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: defaultTimeout,
	}, nil
}

// scriptPayload is the JSON shape the model is asked to produce.
type scriptPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Script      string   `json:"script"`
	Keywords    []string `json:"keywords"`
}

func (g *ScriptGenerator) Generate(ctx context.Context, req pipeline.Request) (pipeline.Script, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(req)),
		},
		Temperature: openai.Float(0.9),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		},
	}

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return pipeline.Script{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return pipeline.Script{}, fmt.Errorf("no completion choices returned")
	}

	var payload scriptPayload
	content := completion.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return pipeline.Script{}, fmt.Errorf("parsing script payload: %w", err)
	}
	if payload.Title == "" || payload.Script == "" {
		return pipeline.Script{}, fmt.Errorf("incomplete script payload: %s", content)
	}

	zap.S().Named("openai").Debugw("script generated",
		"title", payload.Title, "tokens", completion.Usage.TotalTokens)

	return pipeline.Script{
		Title:       payload.Title,
		Description: payload.Description,
		Text:        payload.Script,
		Keywords:    payload.Keywords,
	}, nil
}

const systemPrompt = `You write scripts for vertical short-form videos under 60 seconds.
Reply with a single JSON object: {"title", "description", "script", "keywords"}.
The script is plain narration text with a strong hook in the first sentence.`

func userPrompt(req pipeline.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short video script about: %s.\n", req.Niche)
	if req.Style != "" {
		fmt.Fprintf(&b, "Tone/style: %s.\n", req.Style)
	}
	if req.TemplateStyle != "" {
		fmt.Fprintf(&b, "Template style: %s.\n", req.TemplateStyle)
	}
	maxDuration := req.MaxDuration
	if maxDuration <= 0 {
		maxDuration = 60
	}
	fmt.Fprintf(&b, "The narration must fit in %d seconds when read aloud.", maxDuration)
	return b.String()
}
