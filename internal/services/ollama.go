package services

import (
	"context"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"interview-platform/internal/apperrors"
	"interview-platform/internal/config"
)

// LLMService talks to a local Ollama server through its
// OpenAI-compatible endpoint. One client covers text generation,
// structured (JSON) generation, embeddings and vision prompts.
type LLMService interface {
	Complete(ctx context.Context, systemPrompt, prompt string, temperature float32) (string, error)
	CompleteJSON(ctx context.Context, systemPrompt, prompt string, temperature float32, decode func([]byte) error) error
	Embed(ctx context.Context, text string) ([]float32, error)
	AnalyzeImage(ctx context.Context, imageBase64, prompt string) (string, error)
	CheckHealth(ctx context.Context) bool
}

type llmService struct {
	client      *openai.Client
	llmModel    string
	embedModel  string
	visionModel string
	timeout     time.Duration
}

func NewLLMService(cfg config.OllamaConfig) LLMService {
	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/v1"

	return &llmService{
		client:      openai.NewClientWithConfig(clientConfig),
		llmModel:    cfg.LLMModel,
		embedModel:  cfg.EmbeddingModel,
		visionModel: cfg.VisionModel,
		timeout:     cfg.Timeout,
	}
}

// Complete implements LLMService.
func (s *llmService) Complete(ctx context.Context, systemPrompt, prompt string, temperature float32) (string, error) {
	return s.chat(ctx, s.llmModel, systemPrompt, prompt, temperature)
}

// CompleteJSON implements LLMService. The decode callback unmarshals
// and validates the model output. On a decode failure the prompt is
// retried exactly once with a corrective instruction appended; a second
// failure surfaces as MALFORMED_MODEL_OUTPUT. Transport failures are
// never retried here.
func (s *llmService) CompleteJSON(ctx context.Context, systemPrompt, prompt string, temperature float32, decode func([]byte) error) error {
	response, err := s.chat(ctx, s.llmModel, systemPrompt, prompt, temperature)
	if err != nil {
		return err
	}

	firstErr := decode([]byte(extractJSON(response)))
	if firstErr == nil {
		return nil
	}

	log.Printf("⚠️ Model output failed validation, retrying once: %v", firstErr)

	corrective := prompt + "\n\nYour previous response was not valid JSON matching the required schema. Respond again with ONLY the JSON object, no markdown fences, no commentary, all required fields present."

	response, err = s.chat(ctx, s.llmModel, systemPrompt, corrective, temperature)
	if err != nil {
		return err
	}

	if err := decode([]byte(extractJSON(response))); err != nil {
		return apperrors.Wrap(apperrors.KindMalformedModelOutput, err, "model output failed validation after retry")
	}

	return nil
}

// Embed implements LLMService.
func (s *llmService) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.embedModel),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, err, "embedding request failed")
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, apperrors.New(apperrors.KindServiceUnavailable, "empty embedding result")
	}

	return resp.Data[0].Embedding, nil
}

// AnalyzeImage implements LLMService. The image goes to the vision
// model as a base64 data URL in a multi-part user message.
func (s *llmService) AnalyzeImage(ctx context.Context, imageBase64, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + imageBase64,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindServiceUnavailable, err, "vision request failed")
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.KindServiceUnavailable, "no choices in vision response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// CheckHealth implements LLMService.
func (s *llmService) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.client.ListModels(ctx)
	return err == nil
}

func (s *llmService) chat(ctx context.Context, model, systemPrompt, prompt string, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindServiceUnavailable, err, "completion request failed")
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.KindServiceUnavailable, "no choices in completion response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", apperrors.New(apperrors.KindServiceUnavailable, "empty completion response")
	}

	return text, nil
}

// extractJSON pulls a JSON object or array out of text that may carry
// markdown fences or commentary around it.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")
	startArr := strings.Index(text, "[")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}
	if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return strings.TrimSpace(text)
}
