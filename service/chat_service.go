package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tieubaoca/ayuroot-be/repository"
	"github.com/tieubaoca/ayuroot-be/types"
)

// ErrEmptyMessage is returned for a missing or blank chat message.
var ErrEmptyMessage = errors.New("Message is required")

// ErrHistoryUnavailable is returned when no chat store is configured.
var ErrHistoryUnavailable = errors.New("chat history is unavailable")

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type ChatService interface {
	// Reply answers one message with the chat model.
	Reply(ctx context.Context, message string) (string, error)
	// StreamReply answers one message with the streaming model. The full
	// text is returned; pacing is up to the caller.
	StreamReply(ctx context.Context, message string) (string, error)
	SaveExchange(ctx context.Context, userID, message, response string) error
	History(ctx context.Context, userID string, limit int) ([]*types.Chat, error)
}

type chatService struct {
	chatAI   AIService
	streamAI AIService
	repo     repository.ChatRepo
	timeout  time.Duration
}

// NewChatService builds the chat service. repo may be nil, in which case
// exchanges are not recorded.
func NewChatService(chatAI, streamAI AIService, repo repository.ChatRepo, timeout time.Duration) ChatService {
	if streamAI == nil {
		streamAI = chatAI
	}
	return &chatService{
		chatAI:   chatAI,
		streamAI: streamAI,
		repo:     repo,
		timeout:  timeout,
	}
}

// ValidateMessage rejects a message that is empty after trimming.
func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

func (s *chatService) Reply(ctx context.Context, message string) (string, error) {
	return s.generate(ctx, s.chatAI, message)
}

func (s *chatService) StreamReply(ctx context.Context, message string) (string, error) {
	return s.generate(ctx, s.streamAI, message)
}

func (s *chatService) generate(ctx context.Context, ai AIService, message string) (string, error) {
	if err := ValidateMessage(message); err != nil {
		return "", err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := ai.Generate(ctx, ChatPrompt(message))
	if err != nil {
		return "", upstream(err)
	}
	return text, nil
}

func (s *chatService) SaveExchange(ctx context.Context, userID, message, response string) error {
	if s.repo == nil || userID == "" {
		return nil
	}
	now := time.Now().Unix()
	return s.repo.CreateChat(ctx, &types.Chat{
		UserID:    userID,
		Message:   message,
		Response:  response,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *chatService) History(ctx context.Context, userID string, limit int) ([]*types.Chat, error) {
	if s.repo == nil {
		return nil, ErrHistoryUnavailable
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.repo.ListChats(ctx, userID, limit)
}
