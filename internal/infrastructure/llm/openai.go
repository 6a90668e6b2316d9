package llm

import (
	"context"
	"fmt"

	"github.com/srijan008/MedGamma-Server/config"
	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// Client talks to any OpenAI-compatible chat/embeddings endpoint (Cohere's
// compatibility API in the default deployment).
type Client struct {
	client         openai.Client
	model          string
	embeddingModel string
	temperature    float64
	maxTokens      int
}

func NewClient(cfg config.LLMConfig) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		client:         openai.NewClient(opts...),
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    cfg.Temperature,
		maxTokens:      cfg.MaxTokens,
	}
}

func (c *Client) buildMessages(turns []domain.ChatTurn) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case domain.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(t.Content))
		case domain.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(t.Content))
		default:
			msgs = append(msgs, openai.UserMessage(t.Content))
		}
	}
	return msgs
}

func (c *Client) params(turns []domain.ChatTurn) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    c.buildMessages(turns),
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}
	return params
}

// Invoke runs a blocking completion over a single prompt. Used by the query
// router and the summarizer.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params([]domain.ChatTurn{
		{Role: domain.RoleUser, Content: prompt},
	}))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream starts a streaming completion and forwards text deltas on the
// returned channel. The channel is closed when the stream ends; a transport
// error mid-stream just terminates it early after logging.
func (c *Client) Stream(ctx context.Context, turns []domain.ChatTurn) (<-chan string, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(turns))

	ch := make(chan string, 16)
	go func() {
		defer close(ch)
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				select {
				case ch <- delta:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			logging.L().Error("llm stream error", zap.Error(err))
		}
	}()
	return ch, nil
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	return out, nil
}
