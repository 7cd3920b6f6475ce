package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/ayuroot-be/types"
	"github.com/tieubaoca/ayuroot-be/utils"
)

func TestUserService_Signup(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, "secret", time.Hour)
	ctx := context.Background()

	user, err := svc.Signup(ctx, types.SignupRequest{Name: "Asha", Email: "asha@example.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "pw123456", user.Password)

	_, err = svc.Signup(ctx, types.SignupRequest{Name: "Asha", Email: "asha@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Signup(ctx, types.SignupRequest{Name: "", Email: "x@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestUserService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, "secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Signup(ctx, types.SignupRequest{Name: "Asha", Email: "asha@example.com", Password: "pw123456"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     types.LoginRequest
		wantErr error
	}{
		{"missing fields", types.LoginRequest{Email: "asha@example.com"}, ErrMissingFields},
		{"unknown user", types.LoginRequest{Email: "nobody@example.com", Password: "x"}, ErrUserNotFound},
		{"wrong password", types.LoginRequest{Email: "asha@example.com", Password: "nope"}, ErrInvalidPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	user, token, err := svc.Login(ctx, types.LoginRequest{Email: "asha@example.com", Password: "pw123456"})
	require.NoError(t, err)
	claims, err := utils.ParseUserToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ID)
	assert.Equal(t, "asha@example.com", claims.Email)
}
