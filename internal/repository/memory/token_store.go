package memory

import (
	"context"
	"sync"

	"yatube/internal/repository"
)

// TokenStore keeps session tokens in process. Tokens do not expire.
type TokenStore struct {
	mu      sync.Mutex
	tokens  map[uint64]string
	refresh map[uint64]string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens:  make(map[uint64]string),
		refresh: make(map[uint64]string),
	}
}

func (t *TokenStore) AddUserToken(_ context.Context, userID uint64, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens[userID] = token
	return nil
}

func (t *TokenStore) GetUserToken(_ context.Context, userID uint64) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tok, ok := t.tokens[userID]
	if !ok {
		return "", repository.ErrTokenNotFound
	}
	return tok, nil
}

func (t *TokenStore) ExtendUserToken(context.Context, uint64) error { return nil }

func (t *TokenStore) DeleteUserToken(_ context.Context, userID uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tokens, userID)
	return nil
}

func (t *TokenStore) AddRefreshToken(_ context.Context, userID uint64, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refresh[userID] = token
	return nil
}

func (t *TokenStore) GetRefreshToken(_ context.Context, userID uint64) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tok, ok := t.refresh[userID]
	if !ok {
		return "", repository.ErrTokenNotFound
	}
	return tok, nil
}

func (t *TokenStore) DeleteRefreshToken(_ context.Context, userID uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.refresh, userID)
	return nil
}
