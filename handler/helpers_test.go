package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/ayuroot-be/repository"
	"github.com/tieubaoca/ayuroot-be/types"
)

const testSecret = "handler-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAI struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (f *fakeAI) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.text, f.err
}

func (f *fakeAI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeChatRepo struct {
	mu    sync.Mutex
	chats []*types.Chat
}

func (r *fakeChatRepo) CreateChat(ctx context.Context, chat *types.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat.ID = "chat-" + chat.Message
	r.chats = append(r.chats, chat)
	return nil
}

func (r *fakeChatRepo) ListChats(ctx context.Context, userID string, limit int) ([]*types.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.Chat, 0)
	for i := len(r.chats) - 1; i >= 0 && len(out) < limit; i-- {
		if r.chats[i].UserID == userID {
			out = append(out, r.chats[i])
		}
	}
	return out, nil
}

func (r *fakeChatRepo) Saved() []*types.Chat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*types.Chat(nil), r.chats...)
}

type fakeUserRepo struct {
	users map[string]*types.User
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *types.User) error {
	if _, ok := r.users[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = "u-" + user.Name
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetUser(ctx context.Context, id string) (*types.User, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

// parseSSE decodes every `data:` frame of an event stream body.
func parseSSE(t *testing.T, body string) []types.StreamEvent {
	t.Helper()
	require.True(t, strings.HasSuffix(body, "\n\n") || body == "", "stream must end on a frame boundary")

	events := make([]types.StreamEvent, 0)
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		require.True(t, strings.HasPrefix(line, "data: "), "unexpected line %q", line)
		var ev types.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())
	return events
}
