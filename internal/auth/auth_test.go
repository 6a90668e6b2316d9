package auth

import (
	"context"
	"testing"
	"time"

	"github.com/srijan008/MedGamma-Server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	j := NewJWTService("test-secret", 1)

	token, expiresAt, err := j.GenerateAccessToken("u1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a", 1).GenerateAccessToken("u1", "alice")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 1).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	_, err := NewJWTService("secret", 1).ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestBcryptService(t *testing.T) {
	b := NewBcryptService()

	hash, err := b.Hash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, b.Compare(hash, "hunter2"))
	assert.False(t, b.Compare(hash, "hunter3"))
}

type memUsers struct {
	byName map[string]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byName: make(map[string]*domain.User)}
}

func (r *memUsers) SaveUser(_ context.Context, user *domain.User) error {
	if _, ok := r.byName[user.Username]; ok {
		return domain.ErrUserExists
	}
	r.byName[user.Username] = user
	return nil
}

func (r *memUsers) FindUserByName(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func newTestAuthService() *AuthService {
	return NewAuthService(newMemUsers(), NewBcryptService(), NewJWTService("test-secret", 1))
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.UserID)
	assert.Equal(t, "alice", reg.Username)

	login, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, login.UserID)
	require.NotEmpty(t, login.AccessToken)

	claims, err := svc.ValidateToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, claims.UserID)
}

func TestAuthService_DuplicateRegistration(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "", "pw")
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestAuthService_BadCredentials(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Login(ctx, "ghost", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, "bob", "", "correct")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
