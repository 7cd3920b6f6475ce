package service

import (
	"context"
	"sync"

	"github.com/tieubaoca/ayuroot-be/repository"
	"github.com/tieubaoca/ayuroot-be/types"
)

type fakeAI struct {
	mu      sync.Mutex
	reply   func(prompt string) (string, error)
	prompts []string
}

func replyWith(text string, err error) *fakeAI {
	return &fakeAI{reply: func(string) (string, error) { return text, err }}
}

func (f *fakeAI) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.reply(prompt)
}

func (f *fakeAI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type generateFunc func(ctx context.Context, prompt string) (string, error)

func (f generateFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type fakeChatRepo struct {
	chats     []*types.Chat
	lastLimit int
	err       error
}

func (r *fakeChatRepo) CreateChat(ctx context.Context, chat *types.Chat) error {
	if r.err != nil {
		return r.err
	}
	r.chats = append(r.chats, chat)
	return nil
}

func (r *fakeChatRepo) ListChats(ctx context.Context, userID string, limit int) ([]*types.Chat, error) {
	r.lastLimit = limit
	out := make([]*types.Chat, 0)
	for _, c := range r.chats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, r.err
}

type fakeUserRepo struct {
	users map[string]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*types.User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *types.User) error {
	if _, ok := r.users[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = "id-" + user.Email
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetUser(ctx context.Context, id string) (*types.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type fakeMedicineRepo struct {
	records []*types.MedicineRecord
}

func (r *fakeMedicineRepo) CreateMedicine(ctx context.Context, record *types.MedicineRecord) error {
	r.records = append(r.records, record)
	return nil
}

type memCache struct {
	data map[string]string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key, value string) error {
	c.data[key] = value
	return nil
}
