package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"yatube/internal/form"
	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo   UserRepository
	tokens TokenStore
	issuer *pkg.TokenIssuer
	mailer Mailer
}

// NewUserService builds the identity provider. mailer may be nil.
func NewUserService(repo UserRepository, tokens TokenStore, issuer *pkg.TokenIssuer, mailer Mailer) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		issuer: issuer,
		mailer: mailer,
	}
}

// Signup registers a user. On ErrValidation the form holds field errors.
func (s *UserService) Signup(ctx context.Context, data form.SignupData) (*model.User, *form.SignupForm, error) {
	f := form.NewSignupForm(data)
	if !f.Validate() {
		return nil, f, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Data.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, f, err
	}

	user := &model.User{
		Username:  f.Data.Username,
		Email:     f.Data.Email,
		FirstName: f.Data.FirstName,
		LastName:  f.Data.LastName,
		Password:  string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			f.Errors.Add("username", form.MsgUsernameTaken)
			return nil, f, ErrValidation
		}
		return nil, f, fmt.Errorf("create user: %w", err)
	}

	s.sendWelcome(ctx, user)
	return user, f, nil
}

func (s *UserService) sendWelcome(ctx context.Context, user *model.User) {
	if s.mailer == nil {
		return
	}
	body := pkg.WelcomeHTML(user.FullName(), "/profile/"+url.PathEscape(user.Username)+"/")
	if err := s.mailer.SendEmail(user.Email, "Welcome to Yatube", body); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("username", user.Username).Msg("welcome mail not sent")
	}
}

func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, user.ID, user.Username)
}

// issue signs a pair and records both tokens as the live session.
func (s *UserService) issue(ctx context.Context, userID uint64, username string) (*pkg.Pair, error) {
	pair, err := s.issuer.GeneratePair(userID, username)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.AddUserToken(ctx, userID, pair.AccessToken); err != nil {
		return nil, err
	}
	if err := s.tokens.AddRefreshToken(ctx, userID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout ends the session. Neither the access nor the refresh token is
// accepted afterwards.
func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	if err := s.tokens.DeleteUserToken(ctx, userID); err != nil {
		return err
	}
	return s.tokens.DeleteRefreshToken(ctx, userID)
}

// Refresh exchanges the user's current refresh token for a new pair. The
// old refresh token stops working.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	live, err := s.tokens.GetRefreshToken(ctx, claims.UserID)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return nil, fmt.Errorf("%w: session ended", ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if live != refreshToken {
		return nil, fmt.Errorf("%w: refresh token superseded", ErrInvalidCredentials)
	}

	if _, err := s.repo.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.issue(ctx, claims.UserID, claims.Username)
}

// Authenticate resolves an access token to an identity. The token must be
// the user's live session token; the session is extended on success.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (model.Identity, error) {
	claims, err := s.issuer.ParseAccess(accessToken)
	if err != nil {
		return model.Identity{}, err
	}
	live, err := s.tokens.GetUserToken(ctx, claims.UserID)
	if err != nil {
		return model.Identity{}, err
	}
	if live != accessToken {
		return model.Identity{}, ErrUnauthenticated
	}
	if err := s.tokens.ExtendUserToken(ctx, claims.UserID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint64("user_id", claims.UserID).Msg("session not extended")
	}
	return model.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

// Delete removes the user, their posts and their session.
func (s *UserService) Delete(ctx context.Context, username string) error {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return lookupErr("user", err)
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return lookupErr("user", err)
	}
	_ = s.Logout(ctx, user.ID)
	return nil
}
