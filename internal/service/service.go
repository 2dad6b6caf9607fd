package service

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/model"
	"yatube/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("only the author can do that")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAlreadyExists      = errors.New("already exists")
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint64) (*model.Post, error)
	Count(ctx context.Context, filter model.PostFilter) (int64, error)
	List(ctx context.Context, filter model.PostFilter, offset, limit int) ([]model.Post, error)
}

type GroupRepository interface {
	Create(ctx context.Context, g *model.Group) error
	FindByID(ctx context.Context, id uint64) (*model.Group, error)
	FindBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	Delete(ctx context.Context, id uint64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Delete(ctx context.Context, id uint64) error
}

// TokenStore keeps the single live access and refresh token of each user.
type TokenStore interface {
	AddUserToken(ctx context.Context, userID uint64, token string) error
	GetUserToken(ctx context.Context, userID uint64) (string, error)
	ExtendUserToken(ctx context.Context, userID uint64) error
	DeleteUserToken(ctx context.Context, userID uint64) error

	AddRefreshToken(ctx context.Context, userID uint64, token string) error
	GetRefreshToken(ctx context.Context, userID uint64) (string, error)
	DeleteRefreshToken(ctx context.Context, userID uint64) error
}

type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

// lookupErr turns a store miss into ErrNotFound and wraps everything else.
func lookupErr(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", what, err)
}
