package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tieubaoca/ayuroot-be/repository"
	"github.com/tieubaoca/ayuroot-be/types"
	"github.com/tieubaoca/ayuroot-be/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields   = errors.New("please fill all the details")
	ErrUserExists      = errors.New("User Already Exist")
	ErrUserNotFound    = errors.New("User Not registered")
	ErrInvalidPassword = errors.New("Password incorrect")
)

type UserService interface {
	Signup(ctx context.Context, req types.SignupRequest) (*types.User, error)
	// Login checks the credentials and returns the user with a fresh token.
	Login(ctx context.Context, req types.LoginRequest) (*types.User, string, error)
}

type userService struct {
	repo     repository.UserRepo
	secret   string
	tokenTTL time.Duration
}

func NewUserService(repo repository.UserRepo, secret string, tokenTTL time.Duration) UserService {
	return &userService{
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *userService) Signup(ctx context.Context, req types.SignupRequest) (*types.User, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	_, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().Unix()
	user := &types.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req types.LoginRequest) (*types.User, string, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidPassword
	}

	token, err := utils.GenerateUserToken(user, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}
