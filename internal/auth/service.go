package auth

import (
	"context"
	"errors"
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type RegisterResult struct {
	UserID   string
	Username string
	Email    string
}

type LoginResult struct {
	UserID      string
	Username    string
	AccessToken string
	ExpiresAt   int64
}

// AuthService implements username/password registration and token issuance.
type AuthService struct {
	users  domain.UserRepository
	hasher *BcryptService
	tokens *JWTService
}

func NewAuthService(users domain.UserRepository, hasher *BcryptService, tokens *JWTService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*RegisterResult, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    time.Now(),
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &RegisterResult{UserID: user.ID, Username: user.Username, Email: user.Email}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		UserID:      user.ID,
		Username:    user.Username,
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

func (s *AuthService) ValidateToken(token string) (*TokenClaims, error) {
	return s.tokens.ValidateToken(token)
}
