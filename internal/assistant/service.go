// Package assistant proxies dashboard chat messages to the configured
// LLM provider. Provider failures are never surfaced: the service
// substitutes a fixed fallback reply so /chat always answers 200.
package assistant

import (
	"context"
	"strings"

	"github.com/snehareddy22/airaware/internal/ai"
	"github.com/snehareddy22/airaware/pkg/logger"
)

const (
	systemPrompt = "You are an air quality assistant. " +
		"Give short, clear answers about AQI, pollution and health advice."

	emptyMessageReply = "Please type a question."
	disabledReply     = "Chatbot not enabled (API key missing)."
	unavailableReply  = "AI service unavailable."
)

// langDirectives pins the reply language. Unknown codes fall back to
// English.
var langDirectives = map[string]string{
	"en": "Reply in English.",
	"te": "Reply in Telugu.",
	"hi": "Reply in Hindi.",
}

// Service is the chat assistant
type Service struct {
	provider ai.ChatProvider
	config   ai.ChatConfig
	logger   *logger.Logger
}

// NewService creates a new assistant service. provider may be nil when
// no API key is configured; the service then always answers with the
// disabled reply.
func NewService(provider ai.ChatProvider, config ai.ChatConfig, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		config:   config,
		logger:   log.Named("assistant"),
	}
}

// Reply answers one chat message. It never returns an error: any
// provider failure (network, quota, configuration) degrades to the
// fixed fallback reply.
func (s *Service) Reply(ctx context.Context, message, lang string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return emptyMessageReply
	}

	if s.provider == nil {
		return disabledReply
	}

	directive, ok := langDirectives[lang]
	if !ok {
		directive = langDirectives["en"]
	}

	messages := []ai.ChatMessage{
		{Role: "system", Content: systemPrompt + " " + directive},
		{Role: "user", Content: message},
	}

	reply, err := s.provider.ChatCompletion(ctx, messages, s.config)
	if err != nil {
		s.logger.Error("Chat provider failed", logger.Error(err))
		return unavailableReply
	}
	return reply
}
