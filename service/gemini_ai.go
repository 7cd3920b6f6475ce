package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GeminiService struct {
	clients   []*genai.Client
	modelName string
	next      atomic.Uint64
}

type ModelInfo struct {
	Name        string
	DisplayName string
	Description string
}

// NewGeminiService opens one client per API key. Calls are spread over the
// keys round-robin; a failed call is not retried on another key.
func NewGeminiService(ctx context.Context, apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		clients:   make([]*genai.Client, 0, len(apiKeys)),
		modelName: modelName,
	}
	for i, key := range apiKeys {
		client, err := genai.NewClient(ctx, option.WithAPIKey(key))
		if err != nil {
			service.Close()
			return nil, fmt.Errorf("create gemini client %d: %w", i, err)
		}
		service.clients = append(service.clients, client)
	}
	return service, nil
}

func (s *GeminiService) client() *genai.Client {
	n := s.next.Add(1) - 1
	return s.clients[n%uint64(len(s.clients))]
}

func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	model := s.client().GenerativeModel(s.modelName)

	log.Debug().Str("model", s.modelName).Int("prompt_len", len(prompt)).Msg("Calling Gemini")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", upstream(err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", upstream(err)
	}
	return text, nil
}

// responseText returns the text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoResponse
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", ErrNoResponse
	}

	var sb strings.Builder
	found := false
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
			found = true
		}
	}
	if !found {
		return "", ErrNoResponse
	}
	return sb.String(), nil
}

func (s *GeminiService) ListModels(ctx context.Context) ([]ModelInfo, error) {
	iter := s.client().ListModels(ctx)
	models := make([]ModelInfo, 0)
	for {
		m, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, upstream(err)
		}
		models = append(models, ModelInfo{
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Description: m.Description,
		})
	}
	return models, nil
}

func (s *GeminiService) Close() error {
	var errs []error
	for _, c := range s.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
