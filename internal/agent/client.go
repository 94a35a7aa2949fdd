package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// ChatAPI abstracts the completion operation used by [ChatClient].
// The [openai.Client] type satisfies it.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatClient holds one call's conversation with the model. The system
// preamble is pinned as the first message; each Respond appends the
// user turn and the model's reply to the history.
type ChatClient struct {
	api ChatAPI
	cfg Config
	log *slog.Logger

	mu       sync.Mutex
	messages []openai.ChatCompletionMessage
}

func NewChat(api ChatAPI, cfg Config, log *slog.Logger) *ChatClient {
	if log == nil {
		log = slog.Default()
	}
	cfg = normalizeConfig(cfg)
	return &ChatClient{
		api: api,
		cfg: cfg,
		log: log.With("component", "chat_agent"),
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: cfg.PromptPreamble},
		},
	}
}

func (c *ChatClient) Greeting() string {
	return c.cfg.InitialMessage
}

func (c *ChatClient) Respond(ctx context.Context, input string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: c.messages,
	})
	if err != nil {
		// Drop the unanswered turn so a retry does not duplicate it.
		c.messages = c.messages[:len(c.messages)-1]
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.messages = c.messages[:len(c.messages)-1]
		return "", fmt.Errorf("chat completion: no choices returned")
	}

	reply := resp.Choices[0].Message.Content
	c.messages = append(c.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: reply,
	})

	c.log.Debug("agent turn", "input_len", len(input), "reply_len", len(reply))
	return reply, nil
}
