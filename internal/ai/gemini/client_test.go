package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue []fakeChatResponse
}

type chatCallRecord struct {
	model  string
	config *genai.GenerateContentConfig
	chat   *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func (f *fakeChatCreator) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestCompleteSendsSystemInstruction(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(textResponse("ok"), nil)

	c := &Client{chats: chats, model: "gemini-2.5-pro", maxRetries: 1, logger: zap.NewNop()}

	output, err := c.Complete(context.Background(), "you are a parser", "parse this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(chats.calls))
	}

	call := chats.calls[0]
	if call.config == nil || call.config.SystemInstruction == nil {
		t.Fatalf("expected system instruction to be set")
	}
	if got := call.config.SystemInstruction.Parts[0].Text; got != "you are a parser" {
		t.Fatalf("unexpected system instruction: %q", got)
	}
	if len(call.chat.messages) != 1 || call.chat.messages[0] != "parse this" {
		t.Fatalf("unexpected chat message: %+v", call.chat.messages)
	}
}

func TestCompleteRetriesOnTemporaryError(t *testing.T) {
	originalStep := backoffStep
	backoffStep = 0
	defer func() { backoffStep = originalStep }()

	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	chats.enqueue(textResponse("retry ok"), nil)

	c := &Client{chats: chats, model: "gemini-2.5-pro", maxRetries: 2, logger: zap.NewNop()}

	output, err := c.Complete(context.Background(), "", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestCompleteStopsAfterRetriesExhausted(t *testing.T) {
	originalStep := backoffStep
	backoffStep = 0
	defer func() { backoffStep = originalStep }()

	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"})
	chats.enqueue(nil, genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"})

	c := &Client{chats: chats, model: "gemini-2.5-pro", maxRetries: 2, logger: zap.NewNop()}

	if _, err := c.Complete(context.Background(), "", "message"); err == nil {
		t.Fatalf("expected error after retries exhausted")
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestCompleteDoesNotRetryPermanentError(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	c := &Client{chats: chats, model: "gemini-2.5-pro", maxRetries: 3, logger: zap.NewNop()}

	if _, err := c.Complete(context.Background(), "", "message"); err == nil {
		t.Fatalf("expected error")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(chats.calls))
	}
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	c := &Client{chats: &fakeChatCreator{}, model: "gemini-2.5-pro", logger: zap.NewNop()}

	if _, err := c.Complete(context.Background(), "system", "   "); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}

func TestCompleteEmptyResponseIsError(t *testing.T) {
	chats := &fakeChatCreator{}
	chats.enqueue(&genai.GenerateContentResponse{}, nil)

	c := &Client{chats: chats, model: "gemini-2.5-pro", maxRetries: 1, logger: zap.NewNop()}

	if _, err := c.Complete(context.Background(), "", "message"); err == nil {
		t.Fatalf("expected error for empty response")
	}
}
