package perplexity

import (
	"context"
	"log"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultBaseURL = "https://api.perplexity.ai"

// Options selects the model and generation settings for one completion.
// An empty Model falls back to the client default.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

type Client struct {
	api          *openai.Client
	defaultModel string
}

// NewClient reads PERPLEXITY_API_KEY and PERPLEXITY_API_BASE_URL. A missing
// key still returns a usable client whose calls yield error sentinels, so
// callers have a single failure path.
func NewClient() *Client {
	key := os.Getenv("PERPLEXITY_API_KEY")
	base := os.Getenv("PERPLEXITY_API_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = base
	return &Client{
		api:          openai.NewClientWithConfig(cfg),
		defaultModel: envOr("DEFAULT_CHAT_MODEL", "sonar"),
	}
}

// ModelFor returns the configured model for a pipeline stage.
func ModelFor(envName, fallback string) string {
	return envOr(envName, fallback)
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// Complete runs one chat completion and returns the content, or an
// "Error: ..." sentinel string on any failure. API-level problems never
// surface as Go errors; downstream normalization detects the sentinel.
func (c *Client) Complete(ctx context.Context, system, user string, opt Options) string {
	if os.Getenv("PERPLEXITY_API_KEY") == "" {
		return "Error: PERPLEXITY_API_KEY is not configured."
	}
	model := opt.Model
	if model == "" {
		model = c.defaultModel
	}

	var messages []openai.ChatCompletionMessage
	if strings.TrimSpace(system) != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   opt.MaxTokens,
		Temperature: opt.Temperature,
	})
	if err != nil {
		if ctx.Err() != nil {
			log.Printf("[perplexity][complete] model=%s canceled: %v", model, ctx.Err())
			return "Error: The request to the assistant timed out."
		}
		log.Printf("[perplexity][complete] model=%s request failed: %v", model, err)
		return "Error: Could not reach the assistant service."
	}
	if len(resp.Choices) == 0 {
		log.Printf("[perplexity][complete] model=%s returned no choices", model)
		return "Error: The assistant returned no content."
	}
	return resp.Choices[0].Message.Content
}
