package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	httpEntity "github.com/juniortalk/juniortalk-be/internal/delivery/http/entity"
	"github.com/juniortalk/juniortalk-be/internal/pkg/validate"
	openai "github.com/sashabaranov/go-openai"
)

// Conversation is one stateful practice dialogue with the model. Callers must
// serialize Send calls; the orchestrator guarantees one exchange in flight.
type Conversation interface {
	Send(ctx context.Context, message string) (*httpEntity.TurnReply, error)
}

type ConversationFactory interface {
	NewConversation(instruction string) Conversation
}

type AvatarGenerator interface {
	GenerateAvatar(ctx context.Context, title, description string, gender httpEntity.VoiceGender) (string, error)
}

const turnTemperature = 0.7

type GeminiClient struct {
	APIKey    string
	BaseURL   string
	Model     string
	client    *openai.Client
	validator *validate.Validator
}

func NewGeminiClient(apiKey string, model string, baseURL string, validator *validate.Validator) *GeminiClient {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &GeminiClient{
		APIKey:    apiKey,
		Model:     model,
		BaseURL:   baseURL,
		client:    openai.NewClientWithConfig(config),
		validator: validator,
	}
}

// NewConversation configures a dialogue handle bound to one system
// instruction. No network call happens until the first Send.
func (c *GeminiClient) NewConversation(instruction string) Conversation {
	return &conversation{
		client: c,
		history: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: instruction,
			},
		},
	}
}

type conversation struct {
	client  *GeminiClient
	history []openai.ChatCompletionMessage
}

// Send exchanges one message for a structured reply. The user message joins
// the handle's history only after a valid reply, so a failed exchange leaves
// the conversation exactly where it was.
func (conv *conversation) Send(ctx context.Context, message string) (*httpEntity.TurnReply, error) {
	if conv.client == nil || conv.client.client == nil {
		return nil, fmt.Errorf("client not initialized")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(conv.history)+1)
	messages = append(messages, conv.history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := conv.client.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       conv.client.Model,
			Messages:    messages,
			Temperature: turnTemperature,
			TopP:        0.95,
			MaxTokens:   2048,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini turn error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("gemini returned no choices")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return nil, fmt.Errorf("gemini returned empty response")
	}

	reply, err := ParseTurnReply(text, conv.client.validator)
	if err != nil {
		return nil, err
	}

	conv.history = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: text,
	})

	return reply, nil
}

// ParseTurnReply deserializes a model payload into the turn contract.
// Code fences are stripped first since models occasionally wrap JSON anyway.
func ParseTurnReply(text string, validator *validate.Validator) (*httpEntity.TurnReply, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var reply httpEntity.TurnReply
	if err := json.Unmarshal([]byte(clean), &reply); err != nil {
		return nil, fmt.Errorf("model output is not valid json: %w", err)
	}

	if validator != nil {
		if err := validator.Struct(&reply); err != nil {
			return nil, fmt.Errorf("model output missing required fields: %w", err)
		}
	}

	return &reply, nil
}

// GenerateAvatar requests one character image for a scenario. Used as a
// cosmetic side channel: callers treat any error as "keep the emoji".
func (c *GeminiClient) GenerateAvatar(ctx context.Context, title, description string, gender httpEntity.VoiceGender) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	persona := "a friendly woman"
	if gender == httpEntity.VoiceMale {
		persona = "a friendly man"
	}

	prompt := fmt.Sprintf(
		"A bright, cartoon-style portrait of %s playing the role of a character in the scene %q (%s). Cheerful, child-friendly, simple background.",
		persona, title, description,
	)

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize512x512,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("avatar generate error: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("avatar response contained no image")
	}

	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}
