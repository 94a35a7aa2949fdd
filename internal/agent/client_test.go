package agent

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeChatAPI struct {
	replies  []string
	err      error
	requests []openai.ChatCompletionRequest
}

func (f *fakeChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply}},
		},
	}, nil
}

func TestChatClientRespond(t *testing.T) {
	api := &fakeChatAPI{replies: []string{"We are open 9 to 5."}}
	client := NewChat(api, Config{}, nil)

	reply, err := client.Respond(context.Background(), "What are your timings?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "We are open 9 to 5." {
		t.Errorf("unexpected reply %q", reply)
	}

	req := api.requests[0]
	if req.Model != defaultModel {
		t.Errorf("expected default model, got %s", req.Model)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("expected system preamble first, got role %s", req.Messages[0].Role)
	}
	if req.Messages[1].Content != "What are your timings?" {
		t.Errorf("expected user transcript, got %q", req.Messages[1].Content)
	}
}

func TestChatClientHistoryGrows(t *testing.T) {
	api := &fakeChatAPI{replies: []string{"first", "second"}}
	client := NewChat(api, Config{}, nil)

	client.Respond(context.Background(), "one")
	client.Respond(context.Background(), "two")

	// Second request carries system, user, assistant, user.
	second := api.requests[1]
	if len(second.Messages) != 4 {
		t.Fatalf("expected 4 messages in second request, got %d", len(second.Messages))
	}
	if second.Messages[2].Role != openai.ChatMessageRoleAssistant || second.Messages[2].Content != "first" {
		t.Errorf("expected prior assistant turn in history, got %+v", second.Messages[2])
	}
}

func TestChatClientErrorDropsTurn(t *testing.T) {
	api := &fakeChatAPI{err: errors.New("over capacity")}
	client := NewChat(api, Config{}, nil)

	if _, err := client.Respond(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}

	api.err = nil
	api.replies = []string{"ok"}
	if _, err := client.Respond(context.Background(), "hello again"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The failed turn must not linger in history.
	last := api.requests[len(api.requests)-1]
	if len(last.Messages) != 2 {
		t.Errorf("expected clean history after failed turn, got %d messages", len(last.Messages))
	}
}

func TestChatClientGreeting(t *testing.T) {
	client := NewChat(&fakeChatAPI{}, Config{InitialMessage: "Hi there"}, nil)
	if got := client.Greeting(); got != "Hi there" {
		t.Errorf("expected configured greeting, got %q", got)
	}

	client = NewChat(&fakeChatAPI{}, Config{}, nil)
	if client.Greeting() == "" {
		t.Error("expected non-empty default greeting")
	}
}
