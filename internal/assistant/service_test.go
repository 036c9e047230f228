package assistant

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snehareddy22/airaware/internal/ai"
	"github.com/snehareddy22/airaware/pkg/logger"
)

// fakeProvider records the messages it receives and returns a canned
// reply or error.
type fakeProvider struct {
	reply    string
	err      error
	messages []ai.ChatMessage
}

func (p *fakeProvider) ChatCompletion(ctx context.Context, messages []ai.ChatMessage, config ai.ChatConfig) (string, error) {
	p.messages = messages
	return p.reply, p.err
}

func TestReply(t *testing.T) {
	t.Run("empty message", func(t *testing.T) {
		svc := NewService(&fakeProvider{reply: "hi"}, ai.ChatConfig{}, logger.NewNop())
		assert.Equal(t, "Please type a question.", svc.Reply(context.Background(), "   ", "en"))
	})

	t.Run("nil provider", func(t *testing.T) {
		svc := NewService(nil, ai.ChatConfig{}, logger.NewNop())
		assert.Equal(t, "Chatbot not enabled (API key missing).", svc.Reply(context.Background(), "what is AQI?", "en"))
	})

	t.Run("provider reply passes through", func(t *testing.T) {
		provider := &fakeProvider{reply: "AQI measures air quality."}
		svc := NewService(provider, ai.ChatConfig{Model: "gpt-4o-mini"}, logger.NewNop())

		got := svc.Reply(context.Background(), "what is AQI?", "en")
		assert.Equal(t, "AQI measures air quality.", got)

		assert.Len(t, provider.messages, 2)
		assert.Equal(t, "system", provider.messages[0].Role)
		assert.Contains(t, provider.messages[0].Content, "Reply in English.")
		assert.Equal(t, "user", provider.messages[1].Role)
		assert.Equal(t, "what is AQI?", provider.messages[1].Content)
	})

	t.Run("language directive", func(t *testing.T) {
		provider := &fakeProvider{reply: "ok"}
		svc := NewService(provider, ai.ChatConfig{}, logger.NewNop())

		svc.Reply(context.Background(), "hello", "te")
		assert.Contains(t, provider.messages[0].Content, "Reply in Telugu.")

		svc.Reply(context.Background(), "hello", "hi")
		assert.Contains(t, provider.messages[0].Content, "Reply in Hindi.")

		// Unknown codes fall back to English
		svc.Reply(context.Background(), "hello", "fr")
		assert.Contains(t, provider.messages[0].Content, "Reply in English.")
	})

	t.Run("provider failure degrades to fallback", func(t *testing.T) {
		provider := &fakeProvider{err: fmt.Errorf("quota exceeded")}
		svc := NewService(provider, ai.ChatConfig{}, logger.NewNop())
		assert.Equal(t, "AI service unavailable.", svc.Reply(context.Background(), "hello", "en"))
	})
}
