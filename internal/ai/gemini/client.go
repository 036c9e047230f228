// Package gemini implements ai.ChatProvider on Google's Gemini API via
// the genai SDK.
package gemini

import (
	"context"
	"fmt"

	"github.com/snehareddy22/airaware/internal/ai"
	"github.com/snehareddy22/airaware/pkg/logger"
	"google.golang.org/genai"
)

// Client represents a Google Gemini API client
type Client struct {
	client *genai.Client
	logger *logger.Logger
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, log *logger.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		logger: log.Named("gemini"),
	}, nil
}

// ChatCompletion sends a conversation to Gemini and returns the
// generated text. System messages map to the system instruction;
// assistant messages map to the model role.
func (c *Client) ChatCompletion(ctx context.Context, messages []ai.ChatMessage, config ai.ChatConfig) (string, error) {
	var contents []*genai.Content
	var system string

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if system != "" {
				system += " "
			}
			system += msg.Content
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(config.Temperature)),
		MaxOutputTokens: int32(config.MaxTokens),
	}
	if system != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, config.Model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}
