package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yatube/internal/repository"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	UserTokenPrefix = "login:user:token"
	UserTokenExpire = 30 * time.Minute

	RefreshTokenPrefix = "login:user:refresh"
	RefreshTokenExpire = 24 * time.Hour
)

// TokenRepository stores the one live access and refresh token per user.
type TokenRepository struct {
	Client *redis.Client
}

func tokenKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, userID)
}

func refreshKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", RefreshTokenPrefix, userID)
}

func (r *TokenRepository) AddUserToken(ctx context.Context, userID uint64, token string) error {
	if err := r.Client.Set(ctx, tokenKey(userID), token, UserTokenExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *TokenRepository) GetUserToken(ctx context.Context, userID uint64) (string, error) {
	token, err := r.Client.Get(ctx, tokenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// ExtendUserToken slides the session expiry forward.
func (r *TokenRepository) ExtendUserToken(ctx context.Context, userID uint64) error {
	if err := r.Client.Expire(ctx, tokenKey(userID), UserTokenExpire).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *TokenRepository) DeleteUserToken(ctx context.Context, userID uint64) error {
	if err := r.Client.Del(ctx, tokenKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}

func (r *TokenRepository) AddRefreshToken(ctx context.Context, userID uint64, token string) error {
	if err := r.Client.Set(ctx, refreshKey(userID), token, RefreshTokenExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *TokenRepository) GetRefreshToken(ctx context.Context, userID uint64) (string, error) {
	token, err := r.Client.Get(ctx, refreshKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *TokenRepository) DeleteRefreshToken(ctx context.Context, userID uint64) error {
	if err := r.Client.Del(ctx, refreshKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
